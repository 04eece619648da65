package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 256

// QRHandler renders QR code images for delivery URLs shown on the admin
// listing.
type QRHandler struct{}

// NewQRHandler returns a new handler instance.
func NewQRHandler() *QRHandler {
	return &QRHandler{}
}

// Image handles GET /qr?url=...
func (h *QRHandler) Image(c *fiber.Ctx) error {
	url := c.Query("url")
	if url == "" {
		return fiber.NewError(http.StatusBadRequest, "url query parameter required")
	}

	png, err := qrcode.Encode(url, qrcode.Medium, qrImageSize)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "could not encode url")
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
