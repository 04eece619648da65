package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSession covers every way a presented session can fail
// verification: bad signature, truncation, wrong secret, malformed payload.
var ErrInvalidSession = errors.New("invalid session")

// SessionCodec issues and verifies signed session tokens. The token embeds
// the identity and issue time; holders can read it but not forge it. The
// signing secret lives for the process lifetime, so replacing it invalidates
// every outstanding session.
type SessionCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionCodec builds a codec. A zero ttl means issued sessions never
// expire.
func NewSessionCodec(secret string, ttl time.Duration) *SessionCodec {
	return &SessionCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a session token for the identity with the current issue time.
func (sc *SessionCodec) Issue(identity string) (string, error) {
	now := sc.now()
	claims := jwt.RegisteredClaims{
		Subject:  identity,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if sc.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(sc.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(sc.secret)
}

// Verify checks the signature and returns the embedded identity. Any
// tampering yields ErrInvalidSession, never a partial identity.
func (sc *SessionCodec) Verify(tokenStr string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return sc.secret, nil
	})
	if err != nil {
		return "", ErrInvalidSession
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidSession
	}
	return claims.Subject, nil
}
