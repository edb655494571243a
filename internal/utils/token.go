package utils

import (
    "crypto/rand"   // secure random bytes for cancel tokens
    "crypto/sha256" // only the digest of a token is stored
    "encoding/hex"
)

// CancelToken pairs the raw token handed to the person who booked with the
// digest persisted on the reservation row.
type CancelToken struct {
    Raw  string // returned to the client once, never stored
    Hash string // reservations.token_hash
}

// NewCancelToken generates a 32 byte random token (64 hex characters).
func NewCancelToken() (CancelToken, error) {
    raw, err := randomHex(32)
    if err != nil {
        return CancelToken{}, err
    }
    return CancelToken{Raw: raw, Hash: HashToken(raw)}, nil
}

// HashToken returns the SHA‑256 hex digest of a raw token.  Storing only the
// digest means a leaked database dump cannot be used to cancel bookings.
func HashToken(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

// randomHex returns a hex‑encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
