package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/varnooj/SubsPanel/internal/api/dto"
	"github.com/varnooj/SubsPanel/internal/auth"
)

// AuthHandler serves login, logout, and the root redirect.
type AuthHandler struct {
	guard   *auth.SessionGuard
	cred    *auth.AdminCredential
	limiter *auth.LoginLimiter
	logger  *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(guard *auth.SessionGuard, cred *auth.AdminCredential, limiter *auth.LoginLimiter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{guard: guard, cred: cred, limiter: limiter, logger: logger}
}

// Root handles GET /. Authenticated admins land on the listing, everyone
// else on the login form.
func (h *AuthHandler) Root(c *fiber.Ctx) error {
	if h.guard.IsAdmin(c) {
		return c.Redirect("/admin", http.StatusSeeOther)
	}
	return c.Redirect("/login", http.StatusSeeOther)
}

// LoginPage handles GET /login.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{})
}

// Login handles POST /login. A bad credential re-renders the form with 401
// and never sets a cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	if !h.limiter.Allow(c.Context(), c.IP()) {
		h.logger.Warn("login throttled", zap.String("ip", c.IP()))
		return c.Status(http.StatusTooManyRequests).SendString("Too many login attempts")
	}

	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if !h.cred.Match(req.Username, req.Password) {
		h.logger.Info("login rejected", zap.String("username", req.Username))
		return c.Status(http.StatusUnauthorized).Render("login", fiber.Map{
			"Error": "Invalid username or password.",
		})
	}

	if err := h.guard.SetSessionCookie(c, req.Username); err != nil {
		return err
	}
	return c.Redirect("/admin", http.StatusSeeOther)
}

// Logout handles POST /logout. Clearing the cookie is unconditional.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.guard.ClearSessionCookie(c)
	return c.Redirect("/login", http.StatusSeeOther)
}
