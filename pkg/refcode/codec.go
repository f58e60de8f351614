// Package refcode issues and validates compact, signed, time-bounded referral
// codes. Codes are self-describing: no server-side code-to-subject mapping is
// stored.
package refcode

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMalformed = errors.New("refcode: malformed code")
	ErrBadSignature = errors.New("refcode: signature mismatch")
	ErrCodeTooOld = errors.New("refcode: code too old")
)

type Codec struct {
	signer  Signer
	legacy  Signer // optional second verifier, nil to disable
	maxAge  time.Duration
	now     func() time.Time
}

func NewCodec(signer Signer, maxAge time.Duration) *Codec {
	return &Codec{
		signer: signer,
		maxAge: maxAge,
		now:    time.Now,
	}
}

// WithLegacySigner also accepts tags produced by the previous signing scheme.
func (c *Codec) WithLegacySigner(legacy Signer) *Codec {
	c.legacy = legacy
	return c
}

// WithClock overrides the clock. Tests only.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

// Issue encodes subjectID and the issue instant into a URL-safe code.
func (c *Codec) Issue(subjectID string) string {
	payload := subjectID + "|" + strconv.FormatInt(c.now().UnixMilli(), 10)
	tag := c.signer.Sign(payload)
	return base64.RawURLEncoding.EncodeToString([]byte(payload + "|" + tag))
}

// Validate decodes and verifies a code, failing closed on any malformed
// structure, tag mismatch or stale issue time.
func (c *Codec) Validate(code string) (subjectID string, issuedAt time.Time, err error) {
	raw, err := base64.RawURLEncoding.DecodeString(code)
	if err != nil {
		return "", time.Time{}, ErrMalformed
	}

	parts := strings.Split(string(raw), "|")
	if len(parts) != 3 {
		return "", time.Time{}, ErrMalformed
	}
	subject, millisPart, tag := parts[0], parts[1], parts[2]
	if subject == "" {
		return "", time.Time{}, ErrMalformed
	}

	millis, err := strconv.ParseInt(millisPart, 10, 64)
	if err != nil {
		return "", time.Time{}, ErrMalformed
	}

	payload := subject + "|" + millisPart
	if !c.signer.Verify(payload, tag) {
		if c.legacy == nil || !c.legacy.Verify(payload, tag) {
			return "", time.Time{}, ErrBadSignature
		}
	}

	issuedAt = time.UnixMilli(millis)
	if c.now().Sub(issuedAt) > c.maxAge {
		return "", time.Time{}, ErrCodeTooOld
	}

	return subject, issuedAt, nil
}
