package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
)

// Keys look like pw_{prefix}_{secret}, e.g.
// pw_3f9a12c0_8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b9c.
// The prefix is stored in clear for lookup; only the hash of the full key is kept.
const (
	KeyScheme    = "pw"
	KeyPrefixLen = 8
	KeySecretLen = 32
)

var (
	// ErrInvalidKeyFormat indicates the key format is invalid.
	ErrInvalidKeyFormat = errors.New("invalid API key format")

	keyPattern = regexp.MustCompile(`^pw_([a-f0-9]{8})_([a-f0-9]{32})$`)
)

// IssuedKey is a freshly generated key. Plaintext is shown to the operator
// once and never persisted.
type IssuedKey struct {
	Plaintext string
	Prefix    string
	Hash      string
}

// IssueKey generates a new random API key and its hash.
func IssueKey() (*IssuedKey, error) {
	prefix, err := randomHex(KeyPrefixLen / 2)
	if err != nil {
		return nil, fmt.Errorf("generate prefix: %w", err)
	}
	secret, err := randomHex(KeySecretLen / 2)
	if err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}

	plaintext := fmt.Sprintf("%s_%s_%s", KeyScheme, prefix, secret)

	hash, err := HashKey(plaintext)
	if err != nil {
		return nil, fmt.Errorf("hash key: %w", err)
	}

	return &IssuedKey{
		Plaintext: plaintext,
		Prefix:    prefix,
		Hash:      hash,
	}, nil
}

// KeyPrefix extracts the lookup prefix from a plaintext key.
func KeyPrefix(key string) (string, error) {
	m := keyPattern.FindStringSubmatch(key)
	if m == nil {
		return "", ErrInvalidKeyFormat
	}
	return m[1], nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
