package utils

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Password records keep the legacy parameters of existing deployments:
// PBKDF2-HMAC-SHA256 with 100 iterations and a 16 byte salt.  The iteration
// count is low by today's standards; raising it changes stored records and
// needs an explicit product decision.
const (
	PasswordAlgorithm  = "sha256"
	PasswordIterations = 100
	PasswordSaltBytes  = 16
)

// ErrMalformedRecord is returned when a stored password record cannot be parsed.
var ErrMalformedRecord = errors.New("malformed password record")

// PasswordRecord is the decoded form of algorithm$iterations$salt$hash,
// where salt and hash are lower-case hex.
type PasswordRecord struct {
	Algorithm  string
	Iterations int
	Salt       []byte
	Hash       []byte
}

// String returns the storage form of the record.
func (r PasswordRecord) String() string {
	return strings.Join([]string{
		r.Algorithm,
		strconv.Itoa(r.Iterations),
		hex.EncodeToString(r.Salt),
		hex.EncodeToString(r.Hash),
	}, "$")
}

// ParsePasswordRecord splits a stored record into its four fields.
func ParsePasswordRecord(stored string) (PasswordRecord, error) {
	parts := strings.SplitN(stored, "$", 4)
	if len(parts) != 4 {
		return PasswordRecord{}, ErrMalformedRecord
	}
	iter, err := strconv.Atoi(parts[1])
	if err != nil || iter <= 0 {
		return PasswordRecord{}, ErrMalformedRecord
	}
	salt, err := hex.DecodeString(parts[2])
	if err != nil {
		return PasswordRecord{}, ErrMalformedRecord
	}
	sum, err := hex.DecodeString(parts[3])
	if err != nil || len(sum) == 0 {
		return PasswordRecord{}, ErrMalformedRecord
	}
	if hashFunc(parts[0]) == nil {
		return PasswordRecord{}, ErrMalformedRecord
	}
	return PasswordRecord{Algorithm: parts[0], Iterations: iter, Salt: salt, Hash: sum}, nil
}

// HashPassword derives a new record for plain with a fresh random salt.
func HashPassword(plain string) (string, error) {
	salt := make([]byte, PasswordSaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	h := hashFunc(PasswordAlgorithm)
	rec := PasswordRecord{
		Algorithm:  PasswordAlgorithm,
		Iterations: PasswordIterations,
		Salt:       salt,
		Hash:       pbkdf2.Key([]byte(plain), salt, PasswordIterations, h().Size(), h),
	}
	return rec.String(), nil
}

// VerifyPassword recomputes the digest of plain with the parameters of the
// stored record and compares in constant time.  Any malformed record yields
// false.
func VerifyPassword(stored, plain string) bool {
	rec, err := ParsePasswordRecord(stored)
	if err != nil {
		return false
	}
	h := hashFunc(rec.Algorithm)
	got := pbkdf2.Key([]byte(plain), rec.Salt, rec.Iterations, len(rec.Hash), h)
	return subtle.ConstantTimeCompare(got, rec.Hash) == 1
}

// hashFunc maps the algorithm names accepted by records to constructors.
func hashFunc(name string) func() hash.Hash {
	switch strings.ToLower(name) {
	case "sha256":
		return sha256.New
	case "sha512":
		return sha512.New
	case "sha1":
		return sha1.New
	}
	return nil
}
