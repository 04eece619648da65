package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/varnooj/SubsPanel/internal/api/http/handlers"
	"github.com/varnooj/SubsPanel/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Admin    *handlers.AdminHandler
	Delivery *handlers.DeliveryHandler
	QR       *handlers.QRHandler
	Guard    *auth.SessionGuard
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/", cfg.Auth.Root)
	app.Get("/login", cfg.Auth.LoginPage)
	app.Post("/login", cfg.Auth.Login)
	app.Post("/logout", cfg.Auth.Logout)

	admin := app.Group("/admin", cfg.Guard.RequireAdmin())
	admin.Get("/", cfg.Admin.Index)
	admin.Get("/new", cfg.Admin.NewPage)
	admin.Get("/edit/:id", cfg.Admin.EditPage)
	admin.Post("/create", cfg.Admin.Create)
	admin.Post("/update", cfg.Admin.Update)
	admin.Post("/toggle", cfg.Admin.Toggle)
	admin.Post("/delete", cfg.Admin.Delete)
	admin.Post("/rotate", cfg.Admin.Rotate)

	app.Get("/s/:token", cfg.Delivery.Serve)
	app.Get("/qr", cfg.QR.Image)
}
