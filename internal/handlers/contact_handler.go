package handlers

import (
	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2"
)

// Contact handles POST /api/contact. The form is relayed to an external
// contact API; the bearer token stays server side.
func (h *PaymentHandler) Contact(c *fiber.Ctx) error {
	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Nombre, email y mensaje son requeridos")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, "Nombre, email y mensaje son requeridos")
	}

	contact := h.cfg.Contact
	if contact.APIURL == "" || contact.BearerToken == "" {
		h.log.Error().Msg("contact API configuration is incomplete")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Configuración de API incompleta"})
	}

	resp, err := resty.New().R().
		SetContext(c.UserContext()).
		SetAuthToken(contact.BearerToken).
		SetBody(req).
		Post(contact.APIURL)
	if err != nil {
		return internalError(c, err)
	}
	if resp.IsError() {
		h.log.Error().Int("status", resp.StatusCode()).Msg("contact relay rejected the message")
		return c.Status(resp.StatusCode()).JSON(ErrorResponse{Error: "Error al procesar tu solicitud"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Mensaje enviado correctamente",
	})
}
