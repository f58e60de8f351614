package refcode

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Signer produces and checks the integrity tag embedded in a referral code.
// Verify must be constant-time.
type Signer interface {
	Sign(payload string) string
	Verify(payload, tag string) bool
}

// HMACSigner tags payloads with HMAC-SHA256 under a server-held secret.
type HMACSigner struct {
	secret []byte
}

func NewHMACSigner(secret string) *HMACSigner {
	return &HMACSigner{secret: []byte(secret)}
}

func (s *HMACSigner) Sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *HMACSigner) Verify(payload, tag string) bool {
	want, err := hex.DecodeString(tag)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return hmac.Equal(mac.Sum(nil), want)
}

// LegacySigner reproduces the truncated-hash tags of the previous stack:
// first 8 hex chars of SHA-256(payload|secret). Weaker than HMAC; kept only
// so codes minted before the switch keep validating.
type LegacySigner struct {
	secret string
}

func NewLegacySigner(secret string) *LegacySigner {
	return &LegacySigner{secret: secret}
}

func (s *LegacySigner) Sign(payload string) string {
	sum := sha256.Sum256([]byte(payload + "|" + s.secret))
	return hex.EncodeToString(sum[:])[:8]
}

func (s *LegacySigner) Verify(payload, tag string) bool {
	want := s.Sign(payload)
	return subtle.ConstantTimeCompare([]byte(want), []byte(tag)) == 1
}
