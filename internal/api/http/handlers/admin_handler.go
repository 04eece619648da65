package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/varnooj/SubsPanel/internal/api/dto"
	"github.com/varnooj/SubsPanel/internal/service"
)

// AdminHandler serves the admin views and the privileged mutations. Every
// route behind it is gated by the session guard at registration time.
type AdminHandler struct {
	subs   *service.SubscriptionService
	logger *zap.Logger
}

// NewAdminHandler constructs handler.
func NewAdminHandler(subs *service.SubscriptionService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{subs: subs, logger: logger}
}

// Index handles GET /admin: the subscription listing plus the base URL the
// template uses to render full delivery links.
func (h *AdminHandler) Index(c *fiber.Ctx) error {
	subs, err := h.subs.List(c.Context())
	if err != nil {
		return err
	}
	return c.Render("admin", fiber.Map{
		"Subs":    subs,
		"BaseURL": baseURL(c),
	})
}

// NewPage handles GET /admin/new.
func (h *AdminHandler) NewPage(c *fiber.Ctx) error {
	return c.Render("new", fiber.Map{})
}

// EditPage handles GET /admin/edit/:id. An unknown id goes back to the
// listing instead of erroring.
func (h *AdminHandler) EditPage(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Redirect("/admin", http.StatusSeeOther)
	}

	sub, err := h.subs.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Redirect("/admin", http.StatusSeeOther)
		}
		return err
	}
	return c.Render("edit", fiber.Map{"Sub": sub})
}

// Create handles POST /admin/create.
func (h *AdminHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	sub, err := h.subs.Create(c.Context(), req.Name, req.Content)
	if err != nil {
		return err
	}
	h.logger.Info("subscription created", zap.Int64("id", sub.ID))
	return c.Redirect("/admin", http.StatusSeeOther)
}

// Update handles POST /admin/update.
func (h *AdminHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.subs.Update(c.Context(), req.ID, req.Name, req.Content); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	return c.Redirect("/admin", http.StatusSeeOther)
}

// Toggle handles POST /admin/toggle.
func (h *AdminHandler) Toggle(c *fiber.Ctx) error {
	return h.mutateByID(c, func(id int64) error {
		return h.subs.Toggle(c.Context(), id)
	})
}

// Delete handles POST /admin/delete.
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	return h.mutateByID(c, func(id int64) error {
		return h.subs.Delete(c.Context(), id)
	})
}

// Rotate handles POST /admin/rotate.
func (h *AdminHandler) Rotate(c *fiber.Ctx) error {
	return h.mutateByID(c, func(id int64) error {
		_, err := h.subs.Rotate(c.Context(), id)
		return err
	})
}

// mutateByID runs one id-keyed mutation and redirects to the listing. An
// unknown or unparsable id is a no-op redirect, never a crash.
func (h *AdminHandler) mutateByID(c *fiber.Ctx, mutate func(id int64) error) error {
	var req dto.TargetIDRequest
	if err := c.BodyParser(&req); err != nil || req.ID == 0 {
		return c.Redirect("/admin", http.StatusSeeOther)
	}

	if err := mutate(req.ID); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	return c.Redirect("/admin", http.StatusSeeOther)
}

// baseURL derives the externally visible scheme and host, trusting the
// forwarded headers the upstream proxy sets and falling back to the
// request's own values.
func baseURL(c *fiber.Ctx) string {
	scheme := c.Get("X-Forwarded-Proto")
	if scheme == "" {
		scheme = c.Protocol()
	}
	host := c.Get("X-Forwarded-Host")
	if host == "" {
		host = c.Hostname()
	}
	return scheme + "://" + host
}
