package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashKey_PHCFormat(t *testing.T) {
	t.Parallel()

	hash, err := HashKey("pw_0011aabb_00112233445566778899aabbccddeeff")
	if err != nil {
		t.Fatalf("HashKey failed: %v", err)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Fatalf("expected 6 PHC fields, got %d in %q", len(parts), hash)
	}
	if parts[1] != "argon2id" || parts[2] != "v=19" || parts[3] != "m=65536,t=3,p=4" {
		t.Fatalf("unexpected PHC header: %q", hash)
	}
}

func TestHashKey_SaltedAndVerifiable(t *testing.T) {
	t.Parallel()

	const secret = "same-secret"

	first, err := HashKey(secret)
	if err != nil {
		t.Fatalf("HashKey failed: %v", err)
	}
	second, err := HashKey(secret)
	if err != nil {
		t.Fatalf("HashKey failed: %v", err)
	}
	if first == second {
		t.Fatal("expected different hashes for the same secret")
	}

	for _, h := range []string{first, second} {
		ok, err := VerifyKey(secret, h)
		if err != nil || !ok {
			t.Fatalf("expected hash to verify, ok=%v err=%v", ok, err)
		}
	}

	ok, err := VerifyKey("other-secret", first)
	if err != nil {
		t.Fatalf("VerifyKey failed: %v", err)
	}
	if ok {
		t.Fatal("expected wrong secret to be rejected")
	}
}

func TestVerifyKey_MalformedHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		hash    string
		wantErr error
	}{
		{"empty", "", ErrMalformedHash},
		{"bcrypt", "$2a$10$abcdefghijklmnopqrstuv", ErrMalformedHash},
		{"wrong_algorithm", "$argon2i$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA", ErrMalformedHash},
		{"old_version", "$argon2id$v=16$m=65536,t=3,p=4$c2FsdA$aGFzaA", ErrUnsupportedHashVersion},
		{"bad_params", "$argon2id$v=19$m=x,t=3,p=4$c2FsdA$aGFzaA", ErrMalformedHash},
		{"bad_salt", "$argon2id$v=19$m=65536,t=3,p=4$!!!$aGFzaA", ErrMalformedHash},
		{"empty_sum", "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$", ErrMalformedHash},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			_, err := VerifyKey("secret", test.hash)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("expected %v, got %v", test.wantErr, err)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := Fingerprint("key-a")
	if len(a) != 32 {
		t.Fatalf("expected 32 hex chars, got %d", len(a))
	}
	if a != Fingerprint("key-a") {
		t.Fatal("expected fingerprint to be deterministic")
	}
	if a == Fingerprint("key-b") {
		t.Fatal("expected different keys to have different fingerprints")
	}
}
