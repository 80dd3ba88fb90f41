package model

import "time"

// APIKey is a bearer credential bound to a single user.
// Only the argon2id hash of the secret is stored.
type APIKey struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	KeyHash    string     `json:"-"`
	KeyPrefix  string     `json:"key_prefix"`
	Name       string     `json:"name,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// IsRevoked returns true if the key has been revoked.
func (k *APIKey) IsRevoked() bool {
	return k.RevokedAt != nil
}

// AuthContext is what the auth middleware attaches to a request.
type AuthContext struct {
	KeyID     string
	KeyPrefix string
	UserID    string
	Role      Role
}

// Principal converts the auth context into the identity used by services.
func (a *AuthContext) Principal() Principal {
	return Principal{UserID: a.UserID, Role: a.Role}
}
