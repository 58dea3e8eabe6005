package services

import (
	"fmt"
	"strings"

	"freshsea/internal/models"
	"freshsea/internal/repositories"
)

// CouponService validates coupon codes against order amounts through the
// remote coupon authority. It never mutates usage counts; that is a separate
// settlement step taken only after an order is durably created, so abandoned
// checkouts are never charged usage. Callers must re-evaluate whenever the
// cart changes, because a discount computed for a different amount is stale.
type CouponService struct {
	couponRepo repositories.CouponRepository
}

// NewCouponService creates a new CouponService.
func NewCouponService(couponRepo repositories.CouponRepository) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
	}
}

// NormalizeCode canonicalizes a coupon code for lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Evaluate asks the authority whether a code applies to an order amount.
// An invalid coupon is not an error: the result carries Valid=false and the
// authority's message. Errors mean the authority could not be reached.
func (s *CouponService) Evaluate(code string, orderAmount float64) (*models.CouponValidation, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, fmt.Errorf("%w: please enter a coupon code", ErrValidation)
	}

	result, err := s.couponRepo.Validate(normalized, orderAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to apply coupon: %v", ErrUnavailable, err)
	}
	return result, nil
}
