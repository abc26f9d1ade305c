package handlers

import (
	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2"
)

// TestTransbank handles GET /api/payments/test/transbank. It fires a canned
// init request at the configured Webpay environment and echoes whatever comes
// back, so operators can verify connectivity and credentials without going
// through a real checkout.
func (h *PaymentHandler) TestTransbank(c *fiber.Ctx) error {
	tbk := h.cfg.Transbank
	baseURL := tbk.BaseURL()

	resp, err := resty.New().R().
		SetContext(c.UserContext()).
		SetFormData(map[string]string{
			"commerce_code":      tbk.CommerceCode,
			"buy_order":          "TEST-001",
			"session_id":         "TEST-SESSION-001",
			"amount":             "1000",
			"return_url":         h.cfg.AppBaseURL + "/test",
			"commerce_code_sign": tbk.CommerceCode,
			"signature":          "test-signature",
		}).
		Post(baseURL + "/wsInitTransaction")
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":       resp.StatusCode(),
		"statusText":   resp.Status(),
		"baseUrl":      baseURL,
		"environment":  tbk.Environment,
		"commerceCode": tbk.CommerceCode,
		"response":     resp.String(),
		"contentType":  resp.Header().Get("Content-Type"),
	})
}
