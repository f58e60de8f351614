// Package fingerprint derives a low-entropy, stable device identifier from
// client environment signals. Stability across sessions matters more than
// uniqueness: the identifier bounds referral abuse per physical device, it is
// not an authentication factor.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

type Signals struct {
	UserAgent        string `json:"userAgent"`
	Language         string `json:"language"`
	Timezone         string `json:"timezone"`
	ScreenResolution string `json:"screenResolution"`
	Platform         string `json:"platform"`
}

// Derive hashes the normalized signals into a 16-hex-char identifier.
// Missing signals participate as empty strings so a partial client still
// maps to one stable fingerprint.
func Derive(s Signals) string {
	fields := []string{
		normalize(s.UserAgent),
		normalize(s.Language),
		normalize(s.Timezone),
		normalize(s.ScreenResolution),
		normalize(s.Platform),
	}
	sum := sha256.Sum256([]byte(strings.Join(fields, "||")))
	return hex.EncodeToString(sum[:])[:16]
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
