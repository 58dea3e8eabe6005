package repositories

import (
	"freshsea/internal/models"
)

// CartRepository defines the interface for cart data access. GetByUser joins
// product and vendor display data because the cart projection recomputes its
// subtotal from current catalog prices on every read.
type CartRepository interface {
	GetByUser(userID string) ([]models.CartItem, error)
	GetByID(id string) (*models.CartItem, error)
	// GetByUserAndProduct returns (nil, nil) when the shopper has no line for
	// that product; an error always means the lookup itself failed.
	GetByUserAndProduct(userID, productID string) (*models.CartItem, error)
	Create(item *models.CartItem) error
	UpdateQuantity(id string, quantityKg float64) error
	Delete(id string) error
	DeleteByUser(userID string) error
}
