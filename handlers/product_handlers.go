package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"retailpos/models"
	"retailpos/store"
)

// HandleListProducts returns the full inventory.
func HandleListProducts(c *fiber.Ctx) error {
	return c.JSON(appStore.Products())
}

// HandleSearchProducts matches products by name or code substring.
func HandleSearchProducts(c *fiber.Ctx) error {
	query := c.Query("q")
	return c.JSON(appStore.SearchProducts(query))
}

// HandleCreateProduct adds a product to the inventory.
func HandleCreateProduct(c *fiber.Ctx) error {
	var req models.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}

	if msg := validateProduct(req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": msg})
	}

	product := models.Product{
		Code:  strings.ToUpper(req.Code),
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
	}

	if err := appStore.AddProduct(product); err != nil {
		if errors.Is(err, store.ErrProductExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": "A product with this code already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to add product"})
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates name, price and stock for a product. The
// code is the identity key and cannot change.
func HandleUpdateProduct(c *fiber.Ctx) error {
	code := c.Params("code")

	var req models.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}

	req.Code = code
	if msg := validateProduct(req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": msg})
	}

	product := models.Product{Code: code, Name: req.Name, Price: req.Price, Stock: req.Stock}
	if err := appStore.UpdateProduct(code, product); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Product not found"})
	}

	return c.JSON(product)
}

// HandleDeleteProduct removes a product from the inventory.
func HandleDeleteProduct(c *fiber.Ctx) error {
	code := c.Params("code")

	if err := appStore.DeleteProduct(code); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Product not found"})
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Product has been removed from inventory"})
}

func validateProduct(req models.ProductRequest) string {
	if req.Code == "" || req.Name == "" {
		return "Product code and name are required"
	}
	if req.Price <= 0 {
		return "Price must be greater than zero"
	}
	if req.Stock < 0 {
		return "Stock cannot be negative"
	}
	return ""
}
