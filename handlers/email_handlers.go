package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"retailpos/config"
	"retailpos/models"
	"retailpos/utils"
)

var emailClient = &http.Client{Timeout: 15 * time.Second}

// sendError carries the HTTP status a failed email attempt maps to:
// 400 configuration, 401 bad credential, 403 unverified sender, 500
// transport.
type sendError struct {
	Status  int
	Message string
	Details string
}

func (e *sendError) Error() string {
	return e.Message
}

// sendReceiptEmail posts the bill receipt to SendGrid. Returns nil when
// the mail was accepted.
func sendReceiptEmail(bill models.Bill, customerEmail string, settings models.EmailSettings) error {
	if settings.APIKey == "" || settings.SenderEmail == "" {
		return &sendError{Status: fiber.StatusBadRequest, Message: "Email configuration missing"}
	}

	payload := map[string]interface{}{
		"personalizations": []map[string]interface{}{
			{
				"to":      []map[string]string{{"email": customerEmail}},
				"subject": "Receipt - " + bill.ID,
			},
		},
		"from": map[string]string{
			"email": settings.SenderEmail,
			"name":  settings.SenderName,
		},
		"content": []map[string]string{
			{"type": "text/html", "value": receiptHTML(bill)},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return &sendError{Status: fiber.StatusInternalServerError, Message: "Failed to build email request"}
	}

	req, err := http.NewRequest(http.MethodPost, config.AppConfig.SendGridBaseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return &sendError{Status: fiber.StatusInternalServerError, Message: "Failed to build email request"}
	}
	req.Header.Set("Authorization", "Bearer "+settings.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := emailClient.Do(req)
	if err != nil {
		log.Printf("SendGrid request failed: %v", err)
		return &sendError{Status: fiber.StatusInternalServerError, Message: "Failed to send email"}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	details, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	log.Printf("SendGrid error (%d): %s", resp.StatusCode, details)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &sendError{Status: fiber.StatusUnauthorized, Message: "Invalid or expired SendGrid API key", Details: string(details)}
	case http.StatusForbidden:
		return &sendError{Status: fiber.StatusForbidden, Message: "Sender email is not verified in SendGrid", Details: string(details)}
	default:
		return &sendError{Status: fiber.StatusInternalServerError, Message: "Failed to send email", Details: string(details)}
	}
}

// receiptHTML renders the emailed receipt: header, item table, total.
func receiptHTML(bill models.Bill) string {
	var b strings.Builder

	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	fmt.Fprintf(&b, `<h2 style="color: #333;">Receipt - %s</h2>`, bill.ID)
	fmt.Fprintf(&b, `<p><strong>Date:</strong> %s</p>`, bill.Date.Format("02/01/2006, 15:04:05"))
	fmt.Fprintf(&b, `<p><strong>Customer:</strong> %s</p>`, bill.CustomerName)
	fmt.Fprintf(&b, `<p><strong>Payment Method:</strong> %s</p>`, strings.ToUpper(bill.PaymentMethod))

	b.WriteString(`<h3 style="color: #333;">Items:</h3>`)
	b.WriteString(`<table style="border-collapse: collapse; width: 100%; border: 1px solid #ddd;">`)
	b.WriteString(`<tr style="background-color: #f2f2f2;">` +
		`<th style="border: 1px solid #ddd; padding: 8px; text-align: left;">Item</th>` +
		`<th style="border: 1px solid #ddd; padding: 8px; text-align: left;">Quantity</th>` +
		`<th style="border: 1px solid #ddd; padding: 8px; text-align: left;">Price</th>` +
		`<th style="border: 1px solid #ddd; padding: 8px; text-align: left;">Total</th></tr>`)

	for _, item := range bill.Items {
		fmt.Fprintf(&b, `<tr><td style="border: 1px solid #ddd; padding: 8px;">%s</td>`+
			`<td style="border: 1px solid #ddd; padding: 8px;">%d</td>`+
			`<td style="border: 1px solid #ddd; padding: 8px;">%s</td>`+
			`<td style="border: 1px solid #ddd; padding: 8px;">%s</td></tr>`,
			item.Name, item.Quantity, utils.FormatMoney(item.Price), utils.FormatMoney(item.Subtotal()))
	}
	b.WriteString(`</table>`)

	fmt.Fprintf(&b, `<h3 style="color: #333; margin-top: 20px;"><strong>Total Amount: %s</strong></h3>`, utils.FormatMoney(bill.Total))
	b.WriteString(`<p style="margin-top: 20px; color: #666;">Thank you for your business!</p></div>`)

	return b.String()
}

// HandleResendEmail re-sends the receipt for an existing bill and updates
// its emailSent flag.
func HandleResendEmail(c *fiber.Ctx) error {
	bill, found := appStore.FindBill(c.Params("billId"))
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Bill not found"})
	}
	if bill.CustomerEmail == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Bill has no customer email"})
	}

	err := sendReceiptEmail(bill, bill.CustomerEmail, appStore.EmailSettings())
	if recordErr := appStore.SetEmailSent(bill.ID, err == nil); recordErr != nil {
		log.Printf("Failed to record email status for %s: %v", bill.ID, recordErr)
	}

	if err != nil {
		se := err.(*sendError)
		resp := fiber.Map{"error": se.Message}
		if se.Details != "" {
			resp["details"] = se.Details
		}
		return c.Status(se.Status).JSON(resp)
	}

	return c.JSON(fiber.Map{"success": true})
}

// HandleVerifySendGrid checks an API key and sender against SendGrid:
// profile lookup for the key, verified_senders for the sender address.
func HandleVerifySendGrid(c *fiber.Ctx) error {
	var req struct {
		APIKey      string `json:"apiKey"`
		SenderEmail string `json:"senderEmail"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.APIKey == "" || req.SenderEmail == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "API key and sender email are required"})
	}
	if !strings.HasPrefix(req.APIKey, "SG.") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid SendGrid API key format. Must start with 'SG.'"})
	}

	profileResp, err := sendGridGet("/v3/user/profile", req.APIKey)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to test API key. Please check your connection and try again."})
	}
	defer profileResp.Body.Close()

	if profileResp.StatusCode < 200 || profileResp.StatusCode >= 300 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired SendGrid API key. Please create a new API key in your SendGrid dashboard."})
	}

	senderResp, err := sendGridGet("/v3/verified_senders", req.APIKey)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to test API key. Please check your connection and try again."})
	}
	defer senderResp.Body.Close()

	if senderResp.StatusCode < 200 || senderResp.StatusCode >= 300 {
		// Key works but sender list is unavailable; report success with a caveat.
		return c.JSON(fiber.Map{
			"success": true,
			"message": "API key is valid, but couldn't verify sender email. Please ensure your sender email is verified in SendGrid.",
		})
	}

	var senders struct {
		Results []struct {
			FromEmail string `json:"from_email"`
			Verified  bool   `json:"verified"`
		} `json:"results"`
	}
	if err := json.NewDecoder(senderResp.Body).Decode(&senders); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to parse SendGrid response"})
	}

	for _, sender := range senders.Results {
		if sender.FromEmail == req.SenderEmail && sender.Verified {
			return c.JSON(fiber.Map{
				"success": true,
				"message": "API key is valid and sender email is verified!",
			})
		}
	}

	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error": fmt.Sprintf("Sender email %q is not verified in SendGrid. Please verify it in Settings → Sender Authentication.", req.SenderEmail),
	})
}

func sendGridGet(path, apiKey string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, config.AppConfig.SendGridBaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	return emailClient.Do(req)
}
