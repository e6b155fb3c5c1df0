package passhash

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Parameters match the identity store format: PBKDF2-HMAC-SHA256 over a
// random 128-bit salt, 256-bit derived key, stored as
// base64(salt) + "::" + base64(key).
const (
	saltLen    = 16
	keyLen     = 32
	iterations = 10000
	separator  = "::"
)

// ErrEmptyPassword is returned by Hash for empty input.
var ErrEmptyPassword = errors.New("password cannot be empty")

// Hash derives an encoded salt+key pair from a plaintext password.
func Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := pbkdf2.Key([]byte(password), salt, iterations, keyLen, sha256.New)
	return base64.StdEncoding.EncodeToString(salt) + separator + base64.StdEncoding.EncodeToString(key), nil
}

// Verify recomputes the derived key for candidate and compares it against
// the stored encoding in constant time. Malformed or empty inputs verify
// false; Verify never returns an error for bad stored data.
func Verify(encoded, candidate string) bool {
	if encoded == "" || candidate == "" {
		return false
	}
	saltPart, keyPart, ok := strings.Cut(encoded, separator)
	if !ok {
		return false
	}
	salt, err := base64.StdEncoding.DecodeString(saltPart)
	if err != nil {
		return false
	}
	stored, err := base64.StdEncoding.DecodeString(keyPart)
	if err != nil || len(stored) != keyLen {
		return false
	}
	key := pbkdf2.Key([]byte(candidate), salt, iterations, keyLen, sha256.New)
	return subtle.ConstantTimeCompare(stored, key) == 1
}
