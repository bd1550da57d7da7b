package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	iterations = 10000
	keySize    = 32
)

// Hasher is an injectable wrapper around the package functions.
type Hasher struct{}

// NewHasher returns a Hasher value.
func NewHasher() Hasher { return Hasher{} }

func (Hasher) Hash(password string) (string, error) { return Hash(password) }

func (Hasher) Verify(password, stored string) bool { return Verify(password, stored) }

// Hash derives a salted PBKDF2-HMAC-SHA256 key from the password and returns
// it as "base64(salt).base64(key)". A fresh salt is drawn on every call, so
// two hashes of the same password differ but both verify.
func Hash(password string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, keySize, sha256.New)

	return base64.StdEncoding.EncodeToString(salt) + "." + base64.StdEncoding.EncodeToString(key), nil
}

// Verify re-derives a key from the candidate password using the salt embedded
// in stored and compares it in constant time. Any malformed stored value
// verifies false.
func Verify(password, stored string) bool {
	parts := strings.Split(stored, ".")
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}
	expected, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, keySize, sha256.New)

	return subtle.ConstantTimeCompare(key, expected) == 1
}
