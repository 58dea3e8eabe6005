package repositories

import (
	"fmt"
	"sync"
	"time"

	"freshsea/internal/models"
)

// MockCouponRepository is an in-memory implementation of CouponRepository.
type MockCouponRepository struct {
	coupons     map[string]models.Coupon
	redemptions map[string]string // orderID -> code
	mu          sync.Mutex
}

// NewMockCouponRepository creates a new instance of MockCouponRepository.
func NewMockCouponRepository() *MockCouponRepository {
	return &MockCouponRepository{
		coupons:     make(map[string]models.Coupon),
		redemptions: make(map[string]string),
	}
}

// GetByCode returns a coupon by its code.
func (r *MockCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	coupon, ok := r.coupons[code]
	if !ok {
		return nil, fmt.Errorf("coupon %s: %w", code, ErrNotFound)
	}
	return &coupon, nil
}

// Create adds a new coupon.
func (r *MockCouponRepository) Create(coupon *models.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.coupons[coupon.Code] = *coupon
	return nil
}

// Validate applies the shared coupon rules without mutating anything.
func (r *MockCouponRepository) Validate(code string, orderAmount float64) (*models.CouponValidation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	coupon, ok := r.coupons[code]
	if !ok {
		return &models.CouponValidation{Valid: false, Message: "Invalid coupon code"}, nil
	}
	return EvaluateCoupon(&coupon, orderAmount, time.Now()), nil
}

// IncrementUsage consumes one usage, idempotently per order.
func (r *MockCouponRepository) IncrementUsage(code, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, redeemed := r.redemptions[orderID]; redeemed {
		return nil
	}
	coupon, ok := r.coupons[code]
	if !ok {
		return fmt.Errorf("coupon %s not found for usage increment: %w", code, ErrNotFound)
	}
	coupon.UsedCount++
	r.coupons[code] = coupon
	r.redemptions[orderID] = code
	return nil
}
