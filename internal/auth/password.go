package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// AdminCredential holds the single static admin identity. The configured
// plaintext password is hashed once at startup so login compares against a
// bcrypt hash rather than the raw value.
type AdminCredential struct {
	user string
	hash []byte
}

// NewAdminCredential hashes the configured password with the given cost.
func NewAdminCredential(user, password string, cost int) (*AdminCredential, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, err
	}
	return &AdminCredential{user: user, hash: hash}, nil
}

// User returns the admin identity.
func (c *AdminCredential) User() string {
	return c.user
}

// Match reports whether the submitted pair is the admin credential.
func (c *AdminCredential) Match(user, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(c.user), []byte(user)) == 1
	passOK := bcrypt.CompareHashAndPassword(c.hash, []byte(password)) == nil
	return userOK && passOK
}
