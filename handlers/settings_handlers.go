package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"retailpos/models"
)

// HandleGetEmailSettings returns the current email settings with the API
// key masked.
func HandleGetEmailSettings(c *fiber.Ctx) error {
	settings := appStore.EmailSettings()
	return c.JSON(fiber.Map{
		"apiKey":      maskAPIKey(settings.APIKey),
		"senderEmail": settings.SenderEmail,
		"senderName":  settings.SenderName,
	})
}

// HandleUpdateEmailSettings replaces the email settings and persists them.
func HandleUpdateEmailSettings(c *fiber.Ctx) error {
	var req models.EmailSettings
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}

	if req.SenderName == "" {
		req.SenderName = "Retail Store"
	}

	appStore.SetEmailSettings(req)
	return c.JSON(fiber.Map{"status": "success", "message": "Email settings saved"})
}

func maskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
