package sealer

import (
	"errors"
	"strings"
	"testing"
)

func TestSignAndVerify(t *testing.T) {
	secret := []byte("s3cret")
	payload := []byte(`{"type":"new_booking"}`)

	sig := Sign(secret, payload)
	if !strings.HasPrefix(sig, "sha256=") {
		t.Fatalf("signature %q missing prefix", sig)
	}
	if len(sig) != len("sha256=")+64 {
		t.Errorf("unexpected signature length %d", len(sig))
	}

	if err := Verify(secret, payload, sig); err != nil {
		t.Errorf("Verify() unexpected error: %v", err)
	}
}

func TestVerify_Rejects(t *testing.T) {
	secret := []byte("s3cret")
	payload := []byte("body")
	valid := Sign(secret, payload)

	tests := []struct {
		name      string
		secret    []byte
		payload   []byte
		signature string
		want      error
	}{
		{"missing", secret, payload, "", ErrMissingSignature},
		{"no prefix", secret, payload, strings.TrimPrefix(valid, "sha256="), ErrInvalidSignature},
		{"not hex", secret, payload, "sha256=zz", ErrInvalidSignature},
		{"tampered payload", secret, []byte("body2"), valid, ErrInvalidSignature},
		{"wrong secret", []byte("other"), payload, valid, ErrInvalidSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify(tt.secret, tt.payload, tt.signature)
			if !errors.Is(err, tt.want) {
				t.Errorf("Verify() error = %v, want %v", err, tt.want)
			}
		})
	}
}
