package repositories

import (
	"freshsea/internal/models"
)

// StockDeduction is the outcome of one atomic stock decrement. When Success
// is false, AvailableStock carries the accurate current stock observed under
// the lock, never a stale read.
type StockDeduction struct {
	Success        bool    `json:"success"`
	ProductName    string  `json:"product_name"`
	AvailableStock float64 `json:"available_stock"`
}

// ProductRepository defines the interface for product data access.
// DeductStock is the only mutual-exclusion guarantee in the system:
// concurrent deductions against the same product must be serialized so that
// at most one of two conflicting requests for the last unit succeeds.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	DeductStock(productID string, quantityKg float64) (*StockDeduction, error)
}
