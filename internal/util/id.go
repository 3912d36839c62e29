package util

import (
	"encoding/base64"

	"github.com/google/uuid"
)

// NewScanID generates a short url-safe identifier for a scan
func NewScanID() string {
	u := uuid.New()
	return base64.RawURLEncoding.EncodeToString(u[:])[:12]
}
