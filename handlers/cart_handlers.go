package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"retailpos/models"
	"retailpos/store"
)

// HandleGetCart returns the cart contents and running total.
func HandleGetCart(c *fiber.Ctx) error {
	items := appStore.Cart()
	return c.JSON(fiber.Map{
		"items": items,
		"total": appStore.CartTotal(),
	})
}

// HandleAddCartItem adds a product to the cart. Quantity defaults to 1.
func HandleAddCartItem(c *fiber.Ctx) error {
	var req models.AddCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Product code is required"})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Quantity must be positive"})
	}

	item, err := appStore.AddToCart(req.Code, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrProductNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Product not found"})
		case errors.Is(err, store.ErrInsufficientStock):
			// Report what can still be added, not the raw stock.
			product, _ := appStore.FindProduct(req.Code)
			available := product.Stock
			for _, line := range appStore.Cart() {
				if line.Code == req.Code {
					available -= line.Quantity
				}
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": fmt.Sprintf("Only %d items available", available),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to add item to cart"})
	}

	return c.JSON(item)
}

// HandleUpdateCartItem sets the quantity of a cart line; zero or negative
// removes it, matching the register's minus button.
func HandleUpdateCartItem(c *fiber.Ctx) error {
	code := c.Params("code")

	var req models.UpdateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}

	if err := appStore.UpdateCartQuantity(code, req.Quantity); err != nil {
		switch {
		case errors.Is(err, store.ErrProductNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Item not in cart"})
		case errors.Is(err, store.ErrProductRemoved):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Product no longer exists in inventory"})
		case errors.Is(err, store.ErrInsufficientStock):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Not enough stock for requested quantity"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to update cart"})
	}

	return c.JSON(fiber.Map{
		"items": appStore.Cart(),
		"total": appStore.CartTotal(),
	})
}

// HandleRemoveCartItem removes one line from the cart.
func HandleRemoveCartItem(c *fiber.Ctx) error {
	appStore.RemoveFromCart(c.Params("code"))
	return c.JSON(fiber.Map{
		"items": appStore.Cart(),
		"total": appStore.CartTotal(),
	})
}

// HandleClearCart empties the cart.
func HandleClearCart(c *fiber.Ctx) error {
	appStore.ClearCart()
	return c.JSON(fiber.Map{"status": "success", "message": "Cart cleared"})
}
