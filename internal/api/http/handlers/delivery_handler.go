package handlers

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/varnooj/SubsPanel/internal/observability"
	"github.com/varnooj/SubsPanel/internal/service"
)

// DeliveryHandler serves subscription content to unauthenticated clients by
// bearer token.
type DeliveryHandler struct {
	delivery *service.DeliveryService
	metrics  *observability.Metrics
}

// NewDeliveryHandler constructs handler.
func NewDeliveryHandler(delivery *service.DeliveryService, metrics *observability.Metrics) *DeliveryHandler {
	return &DeliveryHandler{delivery: delivery, metrics: metrics}
}

// Serve handles GET /s/:token. b64=1 (the default) emits the content as
// base64 text with a download filename hint; b64=0 emits it raw. Either way
// the response is marked uncacheable so intermediaries never pin a rotated
// or disabled payload.
func (h *DeliveryHandler) Serve(c *fiber.Ctx) error {
	token := c.Params("token")

	content, err := h.delivery.Deliver(c.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionNotFound):
			h.metrics.RecordDelivery(observability.DeliveryNotFound)
			return c.Status(http.StatusNotFound).SendString("Not found")
		case errors.Is(err, service.ErrSubscriptionDisabled):
			h.metrics.RecordDelivery(observability.DeliveryDisabled)
			return c.Status(http.StatusGone).SendString("Disabled")
		default:
			return err
		}
	}

	h.metrics.RecordDelivery(observability.DeliveryServed)
	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")

	if c.QueryInt("b64", 1) == 1 {
		c.Set(fiber.HeaderContentDisposition, `inline; filename="subscription.txt"`)
		return c.SendString(base64.StdEncoding.EncodeToString([]byte(content)))
	}
	return c.SendString(content)
}
