package handlers

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"retailpos/config"
	"retailpos/models"
	"retailpos/utils"
)

// HandleCheckout validates the payment details, finalizes the sale into a
// bill, and kicks off the receipt email when a customer email was given.
func HandleCheckout(c *fiber.Ctx) error {
	var req models.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}

	if !models.PaymentMethods[req.PaymentMethod] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Unknown payment method"})
	}

	cart := appStore.Cart()
	if len(cart) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Please add items to cart before processing payment"})
	}
	total := appStore.CartTotal()

	switch req.PaymentMethod {
	case "cash":
		if req.AmountReceived < total {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": fmt.Sprintf("Amount received (%s) is less than total (%s)", utils.FormatMoney(req.AmountReceived), utils.FormatMoney(total)),
			})
		}
	case "card":
		if req.CardDetails == nil || req.CardDetails.Number == "" || req.CardDetails.Expiry == "" ||
			req.CardDetails.CVV == "" || req.CardDetails.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Please fill all card details"})
		}
	case "netbanking":
		if req.Bank == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Please select a bank for net banking"})
		}
	}

	bill, err := appStore.Checkout(req.PaymentMethod, req.CustomerName, req.CustomerEmail, time.Now())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Failed to process payment"})
	}

	// Receipt sending never gates the sale.
	if strings.Contains(req.CustomerEmail, "@") {
		go func() {
			sent := sendReceiptEmail(bill, req.CustomerEmail, appStore.EmailSettings()) == nil
			if err := appStore.SetEmailSent(bill.ID, sent); err != nil {
				log.Printf("Failed to record email status for %s: %v", bill.ID, err)
			}
		}()
	}

	resp := fiber.Map{
		"status": "success",
		"bill":   bill,
	}
	if req.PaymentMethod == "cash" {
		resp["change"] = req.AmountReceived - total
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// HandleUPIQR builds the UPI pay string and QR image URL for an amount.
func HandleUPIQR(c *fiber.Ctx) error {
	amount := c.QueryFloat("amount")
	if amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "amount query parameter must be a positive number"})
	}

	upiString := utils.BuildUPIPayString(config.AppConfig.UPIID, config.AppConfig.MerchantName, amount)
	return c.JSON(fiber.Map{
		"upiString": upiString,
		"qrUrl":     utils.BuildUPIQRURL(upiString),
	})
}
