package utils

import (
	"strings"
	"testing"
)

func TestHashPasswordRecordLayout(t *testing.T) {
	stored, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	parts := strings.Split(stored, "$")
	if len(parts) != 4 {
		t.Fatalf("record %q has %d fields, want 4", stored, len(parts))
	}
	if parts[0] != "sha256" || parts[1] != "100" {
		t.Errorf("record prefix = %s$%s, want sha256$100", parts[0], parts[1])
	}
	if len(parts[2]) != 2*PasswordSaltBytes {
		t.Errorf("salt hex length = %d, want %d", len(parts[2]), 2*PasswordSaltBytes)
	}
	if len(parts[3]) != 64 {
		t.Errorf("hash hex length = %d, want 64", len(parts[3]))
	}
}

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	a, _ := HashPassword("same")
	b, _ := HashPassword("same")
	if a == b {
		t.Fatal("two records for the same password are identical")
	}
}

func TestVerifyPassword(t *testing.T) {
	stored, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	tests := []struct {
		name   string
		stored string
		plain  string
		want   bool
	}{
		{"correct", stored, "correct horse", true},
		{"wrong", stored, "battery staple", false},
		{"empty plain", stored, "", false},
		{"empty record", "", "correct horse", false},
		{"three fields", "sha256$100$00", "x", false},
		{"bad iterations", "sha256$abc$00$00", "x", false},
		{"zero iterations", "sha256$0$00$00", "x", false},
		{"bad salt hex", "sha256$100$zz$00", "x", false},
		{"unknown algorithm", "md4$100$00$00", "x", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyPassword(tt.stored, tt.plain); got != tt.want {
				t.Errorf("VerifyPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParsePasswordRecordRoundTrip(t *testing.T) {
	stored, _ := HashPassword("admin")
	rec, err := ParsePasswordRecord(stored)
	if err != nil {
		t.Fatalf("ParsePasswordRecord: %v", err)
	}
	if rec.String() != stored {
		t.Errorf("String() = %q, want %q", rec.String(), stored)
	}
}

func TestCancelToken(t *testing.T) {
	tok, err := NewCancelToken()
	if err != nil {
		t.Fatalf("NewCancelToken: %v", err)
	}
	if len(tok.Raw) != 64 {
		t.Errorf("raw length = %d, want 64", len(tok.Raw))
	}
	if tok.Hash != HashToken(tok.Raw) {
		t.Error("Hash does not match HashToken(Raw)")
	}
	if tok.Hash == tok.Raw {
		t.Error("hash equals raw token")
	}
}

// RFC 7914 section 11: PBKDF2-HMAC-SHA256, P="passwd", S="salt", c=1.
func TestVerifyPasswordKnownVector(t *testing.T) {
	stored := "sha256$1$73616c74$55ac046e56e3089fec1691c22544b605f94185216dde0465e68b9d57c20dacbc"
	if !VerifyPassword(stored, "passwd") {
		t.Fatal("known vector did not verify")
	}
	if VerifyPassword(stored, "passwe") {
		t.Fatal("wrong password verified against known vector")
	}
}
