package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"retailpos/analytics"
)

// HandleGetAnalytics recomputes the analytics view from the current
// bill/product snapshot. There is no cache to invalidate: the computation
// is a pure function of the snapshot, so it can never be stale.
func HandleGetAnalytics(c *fiber.Ctx) error {
	bills, products := appStore.Snapshot()
	return c.JSON(analytics.Compute(bills, products, time.Now()))
}
