package services

import (
	"errors"
	"fmt"

	"freshsea/internal/models"
	"freshsea/internal/repositories"
)

// CartService owns the authoritative set of cart lines for signed-in
// shoppers and mediates all cart mutations.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// CartSnapshot is a read-through projection of a shopper's cart. Subtotal is
// recomputed from current catalog prices on every call, never cached,
// because stock and price can change between calls.
type CartSnapshot struct {
	Items    []models.CartItem `json:"items"`
	Subtotal float64           `json:"subtotal"`
	Count    int               `json:"count"`
}

// AddToCart adds a quantity of a product to the shopper's cart. If a line
// for that product already exists the quantities are merged; otherwise a new
// line is created, subject to the product's minimum order quantity.
func (s *CartService) AddToCart(userID, productID string, quantityKg float64) (*models.CartItem, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: please sign in to add items to cart", ErrUnauthenticated)
	}
	if quantityKg <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !product.IsAvailable {
		return nil, fmt.Errorf("%w: %s is currently unavailable", ErrValidation, product.Name)
	}

	existing, err := s.cartRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if existing != nil {
		newQuantity := existing.QuantityKg + quantityKg
		if err := s.cartRepo.UpdateQuantity(existing.ID, newQuantity); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		existing.QuantityKg = newQuantity
		return existing, nil
	}

	if quantityKg < product.MinOrderKg {
		return nil, fmt.Errorf("%w: minimum order for %s is %.1f kg", ErrValidation, product.Name, product.MinOrderKg)
	}

	item := &models.CartItem{
		UserID:     userID,
		ProductID:  productID,
		QuantityKg: quantityKg,
	}
	if err := s.cartRepo.Create(item); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return item, nil
}

// UpdateQuantity overwrites a line's quantity. A quantity of zero or less is
// equivalent to removing the line. Live-stock checks are the caller's
// responsibility (see StockService); this keeps quantity edits cheap and
// leaves the real guard to deduction time.
func (s *CartService) UpdateQuantity(itemID string, quantityKg float64) error {
	if quantityKg <= 0 {
		return s.Remove(itemID)
	}
	if err := s.cartRepo.UpdateQuantity(itemID, quantityKg); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: cart item %s", ErrNotFound, itemID)
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// Remove deletes one cart line.
func (s *CartService) Remove(itemID string) error {
	if err := s.cartRepo.Delete(itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: cart item %s", ErrNotFound, itemID)
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// Clear deletes all of the shopper's cart lines.
func (s *CartService) Clear(userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: please sign in", ErrUnauthenticated)
	}
	if err := s.cartRepo.DeleteByUser(userID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// Snapshot re-fetches the cart from storage and recomputes the subtotal and
// line count from current product data. Purely a read; no side effects.
func (s *CartService) Snapshot(userID string) (*CartSnapshot, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: please sign in", ErrUnauthenticated)
	}

	items, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	var subtotal float64
	for _, item := range items {
		if item.Product != nil {
			subtotal += item.Product.PricePerKg * item.QuantityKg
		}
	}

	return &CartSnapshot{
		Items:    items,
		Subtotal: subtotal,
		Count:    len(items),
	}, nil
}
