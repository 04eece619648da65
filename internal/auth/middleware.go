package auth

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the designated cookie carrying the signed session.
const SessionCookie = "session"

// SessionGuard extracts and verifies sessions from inbound requests and
// gates the privileged admin routes.
type SessionGuard struct {
	codec     *SessionCodec
	adminUser string
}

// NewSessionGuard constructs the guard around a codec and the configured
// admin identity.
func NewSessionGuard(codec *SessionCodec, adminUser string) *SessionGuard {
	return &SessionGuard{codec: codec, adminUser: adminUser}
}

// Identity returns the verified identity carried by the request, or "" for
// anonymous. A missing, corrupt, or forged cookie is anonymous, never an
// error.
func (g *SessionGuard) Identity(c *fiber.Ctx) string {
	cookie := c.Cookies(SessionCookie)
	if cookie == "" {
		return ""
	}
	identity, err := g.codec.Verify(cookie)
	if err != nil {
		return ""
	}
	return identity
}

// IsAdmin reports whether the request carries a valid admin session.
func (g *SessionGuard) IsAdmin(c *fiber.Ctx) bool {
	return g.Identity(c) == g.adminUser
}

// RequireAdmin redirects non-admin callers to the login page. Denial is a
// redirect, not an error: admin pages are browsed by a human.
func (g *SessionGuard) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !g.IsAdmin(c) {
			return c.Redirect("/login", http.StatusSeeOther)
		}
		return c.Next()
	}
}

// SetSessionCookie issues a session for the identity and attaches it to the
// response. Secure is set when the effective scheme is https, which relies on
// the upstream proxy's forwarded-proto header.
func (g *SessionGuard) SetSessionCookie(c *fiber.Ctx, identity string) error {
	token, err := g.codec.Issue(identity)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Secure:   c.Protocol() == "https",
	})
	return nil
}

// ClearSessionCookie expires the cookie unconditionally. Idempotent.
func (g *SessionGuard) ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
