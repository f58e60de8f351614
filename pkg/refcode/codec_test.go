package refcode

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueAndValidate(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	codec := NewCodec(NewHMACSigner("secret"), 30*24*time.Hour).WithClock(fixedClock(issued))

	code := codec.Issue("subject-1")

	subject, issuedAt, err := codec.Validate(code)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if subject != "subject-1" {
		t.Errorf("subject = %q, want subject-1", subject)
	}
	if !issuedAt.Equal(issued) {
		t.Errorf("issuedAt = %v, want %v", issuedAt, issued)
	}
}

func TestValidateFailsClosed(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	codec := NewCodec(NewHMACSigner("secret"), 30*24*time.Hour).WithClock(fixedClock(now))

	cases := []struct {
		name string
		code string
		want error
	}{
		{"not base64", "!!!", ErrMalformed},
		{"empty", "", ErrMalformed},
		{"too few parts", base64.RawURLEncoding.EncodeToString([]byte("only|two")), ErrMalformed},
		{"empty subject", base64.RawURLEncoding.EncodeToString([]byte("|123|tag")), ErrMalformed},
		{"bad millis", base64.RawURLEncoding.EncodeToString([]byte("subject|abc|tag")), ErrMalformed},
		{"bad tag", base64.RawURLEncoding.EncodeToString([]byte("subject|1717243200000|deadbeef")), ErrBadSignature},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := codec.Validate(tc.code)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer := NewCodec(NewHMACSigner("secret-a"), 30*24*time.Hour)
	verifier := NewCodec(NewHMACSigner("secret-b"), 30*24*time.Hour)

	_, _, err := verifier.Validate(issuer.Issue("subject-1"))
	if !errors.Is(err, ErrBadSignature) {
		t.Errorf("err = %v, want ErrBadSignature", err)
	}
}

func TestValidateExpiry(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	codec := NewCodec(NewHMACSigner("secret"), 30*24*time.Hour).WithClock(fixedClock(issued))
	code := codec.Issue("subject-1")

	codec.WithClock(fixedClock(issued.Add(29 * 24 * time.Hour)))
	if _, _, err := codec.Validate(code); err != nil {
		t.Errorf("code rejected one day before expiry: %v", err)
	}

	codec.WithClock(fixedClock(issued.Add(31 * 24 * time.Hour)))
	if _, _, err := codec.Validate(code); !errors.Is(err, ErrCodeTooOld) {
		t.Errorf("err = %v, want ErrCodeTooOld", err)
	}
}

func TestLegacySignerAccepted(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	legacy := NewLegacySigner("old-secret")

	// A code minted under the previous scheme: same payload layout, legacy
	// tag. The embedded millis match the fixed clock above.
	payload := "subject-1|" + "1748779200000"
	oldCode := base64.RawURLEncoding.EncodeToString([]byte(payload + "|" + legacy.Sign(payload)))

	strict := NewCodec(NewHMACSigner("new-secret"), 30*24*time.Hour).WithClock(fixedClock(now))
	if _, _, err := strict.Validate(oldCode); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("legacy code accepted without legacy signer: %v", err)
	}

	lenient := NewCodec(NewHMACSigner("new-secret"), 30*24*time.Hour).
		WithLegacySigner(legacy).
		WithClock(fixedClock(now))
	subject, _, err := lenient.Validate(oldCode)
	if err != nil {
		t.Fatalf("Validate legacy code: %v", err)
	}
	if subject != "subject-1" {
		t.Errorf("subject = %q, want subject-1", subject)
	}
}

func TestCodeIsURLSafe(t *testing.T) {
	codec := NewCodec(NewHMACSigner("secret"), time.Hour)
	code := codec.Issue("subject with spaces & symbols?")
	if strings.ContainsAny(code, "+/= ") {
		t.Errorf("code %q contains characters unsafe in a URL query", code)
	}
}
