package handlers

// ProductPrice handles POST /api/product/price. Mirror pricing is a flat
// base price plus a per-square-centimeter rate; the constants live server
// side so the storefront cannot be tampered with.

import "github.com/gofiber/fiber/v2"

func (h *PaymentHandler) ProductPrice(c *fiber.Ctx) error {
	var req ProductPriceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid dimensions provided")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, "Invalid dimensions provided")
	}

	pricing := h.cfg.Pricing
	price := pricing.BasePrice + req.Width*req.Height*pricing.PricePerSquareCM
	return c.JSON(ProductPriceResponse{Price: price})
}
