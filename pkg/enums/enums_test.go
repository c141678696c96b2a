package enums

import "testing"

func TestParsePlaceCategory(t *testing.T) {
	cases := []struct {
		in      string
		want    PlaceCategory
		keyword string
	}{
		{"", PlaceCategoryRecycling, "waste management facility"},
		{"recycling", PlaceCategoryRecycling, "waste management facility"},
		{" Dermatologist ", PlaceCategoryDermatologist, "dermatologist"},
		{"dumping", PlaceCategoryDumping, "dump yard"},
	}
	for _, tc := range cases {
		got, err := ParsePlaceCategory(tc.in)
		if err != nil {
			t.Fatalf("ParsePlaceCategory(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParsePlaceCategory(%q) expected %s got %s", tc.in, tc.want, got)
		}
		if got.Keyword() != tc.keyword {
			t.Fatalf("expected keyword %q got %q", tc.keyword, got.Keyword())
		}
	}

	if _, err := ParsePlaceCategory("pharmacy"); err == nil {
		t.Fatal("expected unknown category to fail")
	}
}

func TestParseAuthProvider(t *testing.T) {
	if p, err := ParseAuthProvider("google"); err != nil || p != AuthProviderGoogle {
		t.Fatalf("expected google provider, got %q err=%v", p, err)
	}
	if _, err := ParseAuthProvider("facebook"); err == nil {
		t.Fatal("expected unknown provider to fail")
	}
}

func TestParseScanSource(t *testing.T) {
	if s, err := ParseScanSource("barcode"); err != nil || s != ScanSourceBarcode {
		t.Fatalf("expected barcode, got %q err=%v", s, err)
	}
	if _, err := ParseScanSource("photo"); err == nil {
		t.Fatal("expected unknown source to fail")
	}
}
