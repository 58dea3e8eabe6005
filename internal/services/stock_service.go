package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"freshsea/internal/repositories"
)

// StockService answers "can these quantities still be satisfied?" from live
// catalog data. Verification is advisory only: it narrows the race between
// check and deduction but the sole real guarantee is the atomic deduction
// itself.
type StockService struct {
	productRepo repositories.ProductRepository
}

// NewStockService creates a new StockService.
func NewStockService(productRepo repositories.ProductRepository) *StockService {
	return &StockService{
		productRepo: productRepo,
	}
}

// StockRequest is one (product, requested quantity) pair to verify.
type StockRequest struct {
	ProductID  string  `json:"product_id"`
	QuantityKg float64 `json:"quantity_kg"`
}

// StockCheck is the verification result for one product.
type StockCheck struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	RequestedKg float64 `json:"requested_kg"`
	AvailableKg float64 `json:"available_kg"`
	Missing     bool    `json:"missing"`
}

// Sufficient reports whether the requested quantity was covered at the time
// of the check.
func (c StockCheck) Sufficient() bool {
	return !c.Missing && c.AvailableKg >= c.RequestedKg
}

// Message renders the user-facing shortfall text, naming the product and
// what is actually available.
func (c StockCheck) Message() string {
	if c.Missing {
		return fmt.Sprintf("Product %s is no longer available", c.ProductName)
	}
	if c.AvailableKg <= 0 {
		return fmt.Sprintf("%s is out of stock", c.ProductName)
	}
	return fmt.Sprintf("Sorry, %s now has only %.1f kg left", c.ProductName, c.AvailableKg)
}

// VerifyItems fetches current stock for each requested product and reports,
// per product, whether the requested quantity is covered. Only transport or
// storage failures are errors; shortfalls and missing products come back in
// the checks.
func (s *StockService) VerifyItems(items []StockRequest) ([]StockCheck, error) {
	checks := make([]StockCheck, 0, len(items))
	for _, item := range items {
		check := StockCheck{
			ProductID:   item.ProductID,
			ProductName: item.ProductID,
			RequestedKg: item.QuantityKg,
		}

		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				check.Missing = true
				checks = append(checks, check)
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}

		check.ProductName = product.Name
		check.AvailableKg = product.StockKg
		// A delisted product reads the same as a deleted one.
		if !product.IsAvailable {
			check.Missing = true
			check.AvailableKg = 0
		}
		checks = append(checks, check)
	}
	return checks, nil
}

// Shortfalls filters a verification report down to the failing lines.
func Shortfalls(checks []StockCheck) []StockCheck {
	var bad []StockCheck
	for _, check := range checks {
		if !check.Sufficient() {
			bad = append(bad, check)
		}
	}
	return bad
}

// Watch re-fetches a product's stock on a fixed interval and feeds each
// reading to fn, until the context is cancelled. Views showing live stock
// use this because stock is a high-churn external value that cannot be
// trusted from a stale snapshot.
func (s *StockService) Watch(ctx context.Context, productID string, interval time.Duration, fn func(stockKg float64)) {
	refresh := func() {
		product, err := s.productRepo.GetByID(productID)
		if err != nil {
			log.Printf("stock watch: failed to refresh product %s: %v", productID, err)
			return
		}
		fn(product.StockKg)
	}

	refresh()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}
