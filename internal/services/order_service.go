package services

import (
	"errors"
	"fmt"
	"log"

	"freshsea/internal/models"
	"freshsea/internal/repositories"
	"freshsea/pkg/rabbitmq"
)

// OrderService handles order reads and the post-creation status lifecycle.
type OrderService struct {
	orderRepo repositories.OrderRepository
	mqClient  *rabbitmq.Client
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		mqClient:  mqClient,
	}
}

// GetOrdersByUser retrieves a user's orders, most recent first.
func (s *OrderService) GetOrdersByUser(userID string) ([]models.Order, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: please sign in", ErrUnauthenticated)
	}
	orders, err := s.orderRepo.GetByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return orders, nil
}

// GetOrderByID retrieves a single order with its frozen lines.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return order, nil
}

// UpdateStatus moves an order to a new status, enforcing the lifecycle
// state machine: the forward chain is linear, cancelled is reachable from
// any non-terminal state, and delivered/cancelled admit no exit.
func (s *OrderService) UpdateStatus(id string, status models.OrderStatus) (*models.Order, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: invalid order status: %s", ErrValidation, status)
	}

	order, err := s.GetOrderByID(id)
	if err != nil {
		return nil, err
	}

	if !models.CanTransition(order.Status, status) {
		return nil, fmt.Errorf("%w: cannot move order %s from %s to %s",
			ErrValidation, id, order.Status, status)
	}

	if err := s.orderRepo.UpdateStatus(id, status, order.PaymentStatus); err != nil {
		return nil, fmt.Errorf("%w: failed to update order status: %v", ErrPersistence, err)
	}
	order.Status = status

	s.publishStatusChanged(order)
	return order, nil
}

// Cancel moves an order to cancelled, which is legal from any state before
// delivery.
func (s *OrderService) Cancel(id string) (*models.Order, error) {
	return s.UpdateStatus(id, models.StatusCancelled)
}

func (s *OrderService) publishStatusChanged(order *models.Order) {
	if s.mqClient == nil {
		return
	}
	payload := map[string]interface{}{
		"orderID":     order.ID,
		"orderNumber": order.OrderNumber,
		"userID":      order.UserID,
		"status":      order.Status,
	}
	if err := s.mqClient.PublishOrderEvent("order.status_changed", payload); err != nil {
		log.Printf("Warning: Failed to publish status change for order %s: %v", order.ID, err)
	}
}
