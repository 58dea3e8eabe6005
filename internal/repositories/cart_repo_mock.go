package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"freshsea/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository.
// When constructed with a product repository it joins product data into
// reads the way the GORM preload does.
type MockCartRepository struct {
	items    map[string]models.CartItem
	products ProductRepository // optional, used to join display data
	seq      int
	mu       sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository(products ProductRepository) *MockCartRepository {
	return &MockCartRepository{
		items:    make(map[string]models.CartItem),
		products: products,
	}
}

// GetByUser returns the user's cart lines in insertion order, with product
// and vendor data joined in.
func (r *MockCartRepository) GetByUser(userID string) ([]models.CartItem, error) {
	r.mu.RLock()
	var list []models.CartItem
	for _, item := range r.items {
		if item.UserID == userID {
			list = append(list, item)
		}
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })

	if r.products != nil {
		for i := range list {
			product, err := r.products.GetByID(list[i].ProductID)
			if err == nil {
				list[i].Product = product
			}
		}
	}
	return list, nil
}

// GetByID returns a cart item by its ID.
func (r *MockCartRepository) GetByID(id string) (*models.CartItem, error) {
	r.mu.RLock()
	item, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("cart item with ID %s: %w", id, ErrNotFound)
	}
	if r.products != nil {
		if product, err := r.products.GetByID(item.ProductID); err == nil {
			item.Product = product
		}
	}
	return &item, nil
}

// GetByUserAndProduct returns the user's line for a product, or (nil, nil).
func (r *MockCartRepository) GetByUserAndProduct(userID, productID string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.UserID == userID && item.ProductID == productID {
			found := item
			return &found, nil
		}
	}
	return nil, nil
}

// Create adds a new cart item.
func (r *MockCartRepository) Create(item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	// Monotonic timestamps keep line order stable even within one tick.
	r.seq++
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Unix(int64(r.seq), 0)
	}
	r.items[item.ID] = *item
	return nil
}

// UpdateQuantity overwrites the quantity of an existing cart item.
func (r *MockCartRepository) UpdateQuantity(id string, quantityKg float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("cart item with ID %s not found for update: %w", id, ErrNotFound)
	}
	item.QuantityKg = quantityKg
	r.items[id] = item
	return nil
}

// Delete removes a single cart item.
func (r *MockCartRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("cart item with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	delete(r.items, id)
	return nil
}

// DeleteByUser clears the user's cart.
func (r *MockCartRepository) DeleteByUser(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, item := range r.items {
		if item.UserID == userID {
			delete(r.items, id)
		}
	}
	return nil
}
