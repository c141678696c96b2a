package enums

import "fmt"

// ScanSource records how a product analysis was requested.
type ScanSource string

const (
	ScanSourceImage   ScanSource = "image"
	ScanSourceBarcode ScanSource = "barcode"
)

func (s ScanSource) String() string {
	return string(s)
}

func (s ScanSource) IsValid() bool {
	return s == ScanSourceImage || s == ScanSourceBarcode
}

// ParseScanSource converts raw input into a ScanSource.
func ParseScanSource(value string) (ScanSource, error) {
	candidate := ScanSource(value)
	if !candidate.IsValid() {
		return "", fmt.Errorf("invalid scan source %q", value)
	}
	return candidate, nil
}
