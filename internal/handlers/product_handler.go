package handlers

import (
	"errors"
	"log"

	"freshsea/internal/repositories"
	"freshsea/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the catalog read surface and the
// live-stock endpoint that polling clients hit.
type ProductHandler struct {
	productRepo repositories.ProductRepository
	stock       *services.StockService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productRepo repositories.ProductRepository, stock *services.StockService) *ProductHandler {
	return &ProductHandler{
		productRepo: productRepo,
		stock:       stock,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Get("/:id/stock", h.HandleGetProductStock)
	productRoutes.Post("/verify-stock", h.HandleVerifyStock)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.productRepo.GetAll()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		log.Printf("Error getting product by ID %s: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleGetProductStock returns only the current stock for a product.
// Clients displaying live stock poll this before any quantity-increasing
// action and on a fixed interval while visible.
func (h *ProductHandler) HandleGetProductStock(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve stock",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"product_id": product.ID,
		"stock_kg":   product.StockKg,
	})
}

// HandleVerifyStock runs the advisory stock verification for a set of
// requested quantities and returns the per-product report.
func (h *ProductHandler) HandleVerifyStock(c *fiber.Ctx) error {
	var req struct {
		Items []services.StockRequest `json:"items"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	checks, err := h.stock.VerifyItems(req.Items)
	if err != nil {
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not verify stock",
			"error":   err.Error(),
		})
	}

	shortfalls := services.Shortfalls(checks)
	messages := make([]string, 0, len(shortfalls))
	for _, check := range shortfalls {
		messages = append(messages, check.Message())
	}

	return c.JSON(fiber.Map{
		"checks": checks,
		"ok":     len(shortfalls) == 0,
		"issues": messages,
	})
}
