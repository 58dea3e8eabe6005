package handlers

import (
	"log"

	"freshsea/internal/models"
	"freshsea/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for checkout, coupon evaluation, and
// the order lifecycle.
type OrderHandler struct {
	checkout *services.CheckoutService
	orders   *services.OrderService
	coupons  *services.CouponService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(checkout *services.CheckoutService, orders *services.OrderService, coupons *services.CouponService) *OrderHandler {
	return &OrderHandler{
		checkout: checkout,
		orders:   orders,
		coupons:  coupons,
	}
}

// RegisterRoutes registers the checkout and order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/checkout", h.HandleCheckout)
	router.Post("/coupons/evaluate", h.HandleEvaluateCoupon)

	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
}

// HandleCheckout runs one checkout attempt for the signed-in shopper.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	var input services.CheckoutInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	order, err := h.checkout.PlaceOrder(currentUserID(c), input)
	if err != nil {
		log.Printf("Error placing order: %v", err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not place order",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleEvaluateCoupon checks a coupon against an order amount without
// consuming usage. Clients call this when the shopper applies a code and
// again whenever the cart changes, because a previously-computed discount is
// stale after any edit.
func (h *OrderHandler) HandleEvaluateCoupon(c *fiber.Ctx) error {
	var req struct {
		Code        string  `json:"code"`
		OrderAmount float64 `json:"order_amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	result, err := h.coupons.Evaluate(req.Code, req.OrderAmount)
	if err != nil {
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not evaluate coupon",
			"error":   err.Error(),
		})
	}
	return c.JSON(result)
}

// HandleGetOrders retrieves the signed-in shopper's orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.orders.GetOrdersByUser(currentUserID(c))
	if err != nil {
		log.Printf("Error getting orders: %v", err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.orders.GetOrderByID(orderID)
	if err != nil {
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}
	return c.JSON(order)
}

// HandleUpdateOrderStatus moves an order to a new lifecycle status.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}
	if req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update.",
		})
	}

	order, err := h.orders.UpdateStatus(orderID, req.Status)
	if err != nil {
		log.Printf("Error updating order status for order %s: %v", orderID, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not update order status",
			"error":   err.Error(),
		})
	}

	return c.JSON(order)
}

// HandleCancelOrder cancels an order if it has not been delivered.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.orders.Cancel(orderID)
	if err != nil {
		log.Printf("Error cancelling order %s: %v", orderID, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not cancel order",
			"error":   err.Error(),
		})
	}
	return c.JSON(order)
}
