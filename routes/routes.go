package routes

import (
	"retailpos/handlers"
	"retailpos/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App) {
	app.Use(middleware.RequestLogger)

	api := app.Group("/api/v1")

	// --- Inventory ---
	products := api.Group("/products")
	products.Get("/search", handlers.HandleSearchProducts) // Must be before /:code routes
	products.Get("/", handlers.HandleListProducts)
	products.Post("/", handlers.HandleCreateProduct)
	products.Put("/:code", handlers.HandleUpdateProduct)
	products.Delete("/:code", handlers.HandleDeleteProduct)

	// --- Cart ---
	cart := api.Group("/cart")
	cart.Get("/", handlers.HandleGetCart)
	cart.Delete("/", handlers.HandleClearCart)
	cart.Post("/items", handlers.HandleAddCartItem)
	cart.Put("/items/:code", handlers.HandleUpdateCartItem)
	cart.Delete("/items/:code", handlers.HandleRemoveCartItem)

	// --- Payment ---
	api.Post("/checkout", handlers.HandleCheckout)
	api.Get("/payments/upi-qr", handlers.HandleUPIQR)

	// --- Bills & feedback ---
	bills := api.Group("/bills")
	bills.Get("/", handlers.HandleListBills)
	bills.Get("/:billId", handlers.HandleGetBill)
	bills.Post("/:billId/feedback", handlers.HandleCreateFeedback)
	bills.Post("/:billId/email", handlers.HandleResendEmail)

	// --- Analytics ---
	api.Get("/analytics", handlers.HandleGetAnalytics)
	api.Post("/analytics/insights", handlers.HandleGetInsights)

	// --- Settings ---
	settings := api.Group("/settings")
	settings.Get("/email", handlers.HandleGetEmailSettings)
	settings.Put("/email", handlers.HandleUpdateEmailSettings)
	settings.Post("/email/verify", handlers.HandleVerifySendGrid)
}
