package instance

import (
	"os"

	"github.com/me0hharryy/dermaGo/pkg/env"
)

// GetID identifies this process in logs. DERMAGO_INSTANCE_ID wins, then the
// host name.
func GetID() string {
	if id := env.Get("DERMAGO_INSTANCE_ID", ""); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "api-0"
}
