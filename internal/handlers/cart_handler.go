package handlers

import (
	"log"

	"freshsea/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the shopper's cart.
type CartHandler struct {
	service *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service: service,
	}
}

// RegisterRoutes registers the cart routes with the Fiber app. All routes
// assume the JWT middleware has stored the user ID in locals.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:id", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
}

// HandleGetCart returns the fresh cart snapshot with its recomputed
// subtotal.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	snapshot, err := h.service.Snapshot(currentUserID(c))
	if err != nil {
		log.Printf("Error getting cart snapshot: %v", err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not retrieve cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(snapshot)
}

// HandleAddItem adds a quantity of a product to the cart, merging with any
// existing line for the same product.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req struct {
		ProductID  string  `json:"product_id"`
		QuantityKg float64 `json:"quantity_kg"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	item, err := h.service.AddToCart(currentUserID(c), req.ProductID, req.QuantityKg)
	if err != nil {
		log.Printf("Error adding product %s to cart: %v", req.ProductID, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not add item to cart",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdateQuantity overwrites a line's quantity; zero or less removes
// the line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req struct {
		QuantityKg float64 `json:"quantity_kg"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	itemID := c.Params("id")
	if err := h.service.UpdateQuantity(itemID, req.QuantityKg); err != nil {
		log.Printf("Error updating quantity for cart item %s: %v", itemID, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not update quantity",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Quantity updated",
	})
}

// HandleRemoveItem deletes one cart line.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	itemID := c.Params("id")
	if err := h.service.Remove(itemID); err != nil {
		log.Printf("Error removing cart item %s: %v", itemID, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not remove item",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Item removed",
	})
}

// HandleClearCart deletes all of the shopper's cart lines.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.service.Clear(currentUserID(c)); err != nil {
		log.Printf("Error clearing cart: %v", err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not clear cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Cart cleared",
	})
}
