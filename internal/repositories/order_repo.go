package repositories

import (
	"freshsea/internal/models"
)

// OrderRepository defines the interface for order data access. Orders are
// immutable after creation except for their status pair, which only
// UpdateStatus may touch.
type OrderRepository interface {
	Create(order *models.Order) error
	CreateItems(orderID string, items []models.OrderItem) error
	GetByID(id string) (*models.Order, error)
	GetByUser(userID string) ([]models.Order, error)
	UpdateStatus(id string, status models.OrderStatus, paymentStatus models.PaymentStatus) error
}
