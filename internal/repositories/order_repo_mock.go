package repositories

import (
	"fmt"
	"sort"
	"sync"

	"freshsea/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	items  map[string][]models.OrderItem
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
		items:  make(map[string][]models.OrderItem),
	}
}

// Create adds a new order record.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	stored := *order
	stored.Items = nil
	r.orders[order.ID] = stored
	return nil
}

// CreateItems persists the frozen order lines for an order.
func (r *MockOrderRepository) CreateItems(orderID string, items []models.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[orderID]; !ok {
		return fmt.Errorf("order with ID %s: %w", orderID, ErrNotFound)
	}
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
		items[i].OrderID = orderID
	}
	r.items[orderID] = append(r.items[orderID], items...)
	return nil
}

// GetByID returns an order with its items.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	order.Items = append([]models.OrderItem(nil), r.items[id]...)
	return &order, nil
}

// GetByUser returns a user's orders, most recent first.
func (r *MockOrderRepository) GetByUser(userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []models.Order
	for id, order := range r.orders {
		if order.UserID == userID {
			order.Items = append([]models.OrderItem(nil), r.items[id]...)
			list = append(list, order)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

// UpdateStatus writes the status pair of an order.
func (r *MockOrderRepository) UpdateStatus(id string, status models.OrderStatus, paymentStatus models.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s not found for status update: %w", id, ErrNotFound)
	}
	order.Status = status
	order.PaymentStatus = paymentStatus
	r.orders[id] = order
	return nil
}
