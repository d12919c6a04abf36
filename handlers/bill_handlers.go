package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"retailpos/models"
	"retailpos/store"
)

// HandleListBills returns the bill history, newest first.
func HandleListBills(c *fiber.Ctx) error {
	return c.JSON(appStore.Bills())
}

// HandleGetBill returns a single bill by id.
func HandleGetBill(c *fiber.Ctx) error {
	bill, found := appStore.FindBill(c.Params("billId"))
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Bill not found"})
	}
	return c.JSON(bill)
}

// HandleCreateFeedback records customer feedback for a bill. A bill takes
// feedback at most once.
func HandleCreateFeedback(c *fiber.Ctx) error {
	billID := c.Params("billId")

	var req models.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Rating must be between 1 and 5"})
	}

	feedback := models.Feedback{
		ID:      uuid.NewString(),
		BillID:  billID,
		Rating:  req.Rating,
		Emoji:   req.Emoji,
		Comment: req.Comment,
		Date:    time.Now(),
	}

	if err := appStore.AttachFeedback(billID, feedback); err != nil {
		switch {
		case errors.Is(err, store.ErrBillNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Bill not found"})
		case errors.Is(err, store.ErrFeedbackExists):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": "Feedback already submitted for this bill"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to save feedback"})
	}

	return c.Status(fiber.StatusCreated).JSON(feedback)
}
