// Package auth issues and verifies the API keys that identify callers.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for newly issued keys.
const (
	hashTime    = 3
	hashMemory  = 64 * 1024
	hashThreads = 4
	hashKeyLen  = 32
	hashSaltLen = 16
)

var (
	// ErrMalformedHash indicates a stored hash is not an argon2id PHC string.
	ErrMalformedHash = errors.New("malformed key hash")
	// ErrUnsupportedHashVersion indicates a hash from another argon2 version.
	ErrUnsupportedHashVersion = errors.New("unsupported argon2 version")
)

// phc is a decoded $argon2id$v=..$m=..,t=..,p=..$salt$hash string.
type phc struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	sum     []byte
}

func (p phc) String() string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.time, p.threads,
		base64.RawStdEncoding.EncodeToString(p.salt),
		base64.RawStdEncoding.EncodeToString(p.sum),
	)
}

func parsePHC(encoded string) (phc, error) {
	var p phc

	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != "argon2id" {
		return p, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil {
		return p, ErrMalformedHash
	}
	if version != argon2.Version {
		return p, ErrUnsupportedHashVersion
	}

	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return p, ErrMalformedHash
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(fields[4]); err != nil {
		return p, ErrMalformedHash
	}
	if p.sum, err = base64.RawStdEncoding.DecodeString(fields[5]); err != nil || len(p.sum) == 0 {
		return p, ErrMalformedHash
	}
	return p, nil
}

// HashKey derives an argon2id hash of secret in PHC string format.
func HashKey(secret string) (string, error) {
	salt := make([]byte, hashSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	p := phc{
		memory:  hashMemory,
		time:    hashTime,
		threads: hashThreads,
		salt:    salt,
	}
	p.sum = argon2.IDKey([]byte(secret), p.salt, p.time, p.memory, p.threads, hashKeyLen)

	return p.String(), nil
}

// VerifyKey reports whether secret matches the stored hash.
// The comparison runs in constant time.
func VerifyKey(secret, encoded string) (bool, error) {
	p, err := parsePHC(encoded)
	if err != nil {
		return false, err
	}

	sum := argon2.IDKey([]byte(secret), p.salt, p.time, p.memory, p.threads, uint32(len(p.sum)))
	return subtle.ConstantTimeCompare(sum, p.sum) == 1, nil
}

// Fingerprint returns a short SHA-256 digest used to key the auth cache.
// It is not a substitute for HashKey.
func Fingerprint(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:16])
}
