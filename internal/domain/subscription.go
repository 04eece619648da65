package domain

import (
	"crypto/rand"
	"encoding/base64"
)

// tokenBytes is the amount of randomness behind each bearer token.
// 24 bytes encodes to 32 URL-safe characters (~192 bits of entropy).
const tokenBytes = 24

// Subscription is a line-oriented configuration payload served to clients
// that present its bearer token.
type Subscription struct {
	ID        int64
	Name      string
	Token     string
	Content   string
	IsActive  bool
	CreatedAt int64
	UpdatedAt int64
}

// NewToken mints a fresh URL-safe bearer token. Uniqueness is enforced by the
// store, not here; callers retry on the unlikely collision.
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
