package repositories

import (
	"errors"
	"fmt"
	"time"

	"freshsea/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCouponRepository is a GORM implementation of CouponRepository.
type GORMCouponRepository struct {
	db *gorm.DB
}

// NewGORMCouponRepository creates a new instance of GORMCouponRepository.
func NewGORMCouponRepository(db *gorm.DB) *GORMCouponRepository {
	return &GORMCouponRepository{
		db: db,
	}
}

// GetByCode retrieves a coupon by its code.
func (r *GORMCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.First(&coupon, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("coupon %s: %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get coupon %s: %w", code, err)
	}
	return &coupon, nil
}

// Create creates a new coupon.
func (r *GORMCouponRepository) Create(coupon *models.Coupon) error {
	if err := r.db.Create(coupon).Error; err != nil {
		return fmt.Errorf("failed to create coupon: %w", err)
	}
	return nil
}

// Validate judges a coupon code against an order amount. It never mutates
// the coupon; rejections come back as a non-valid result with a user-facing
// message, and only lookup failures are returned as errors.
func (r *GORMCouponRepository) Validate(code string, orderAmount float64) (*models.CouponValidation, error) {
	var coupon models.Coupon
	if err := r.db.First(&coupon, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.CouponValidation{Valid: false, Message: "Invalid coupon code"}, nil
		}
		return nil, fmt.Errorf("failed to look up coupon %s: %w", code, err)
	}
	return EvaluateCoupon(&coupon, orderAmount, time.Now()), nil
}

// IncrementUsage consumes one usage of a coupon for an order. The redemption
// row's unique order_id makes the call idempotent: a retry for the same
// order finds the existing row and leaves used_count unchanged.
func (r *GORMCouponRepository) IncrementUsage(code, orderID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.CouponRedemption
		err := tx.First(&existing, "order_id = ?", orderID).Error
		if err == nil {
			return nil // already redeemed for this order
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check redemption for order %s: %w", orderID, err)
		}

		redemption := models.CouponRedemption{
			ID:      uuid.New().String(),
			Code:    code,
			OrderID: orderID,
		}
		if err := tx.Create(&redemption).Error; err != nil {
			return fmt.Errorf("failed to record redemption for order %s: %w", orderID, err)
		}

		res := tx.Model(&models.Coupon{}).
			Where("code = ?", code).
			Update("used_count", gorm.Expr("used_count + 1"))
		if res.Error != nil {
			return fmt.Errorf("failed to increment usage for coupon %s: %w", code, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("coupon %s not found for usage increment: %w", code, ErrNotFound)
		}
		return nil
	})
}

// EvaluateCoupon applies the coupon rules to an order amount at a given
// time. Shared between the GORM and mock authorities so both enforce the
// same contract.
func EvaluateCoupon(coupon *models.Coupon, orderAmount float64, now time.Time) *models.CouponValidation {
	if !coupon.IsActive {
		return &models.CouponValidation{Valid: false, Message: "This coupon is no longer active"}
	}
	if now.Before(coupon.ValidFrom) {
		return &models.CouponValidation{Valid: false, Message: "This coupon is not valid yet"}
	}
	if coupon.ValidUntil != nil && now.After(*coupon.ValidUntil) {
		return &models.CouponValidation{Valid: false, Message: "This coupon has expired"}
	}
	if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
		return &models.CouponValidation{Valid: false, Message: "This coupon has been fully redeemed"}
	}
	if orderAmount < coupon.MinOrderAmount {
		return &models.CouponValidation{
			Valid:   false,
			Message: fmt.Sprintf("Minimum order amount for this coupon is Rs.%.0f", coupon.MinOrderAmount),
		}
	}

	discount := coupon.DiscountValue
	if coupon.DiscountType == models.DiscountPercent {
		discount = orderAmount * coupon.DiscountValue / 100
		if coupon.MaxDiscount != nil && discount > *coupon.MaxDiscount {
			discount = *coupon.MaxDiscount
		}
	}
	if discount > orderAmount {
		discount = orderAmount
	}

	return &models.CouponValidation{
		Valid:    true,
		Discount: discount,
		Message:  fmt.Sprintf("Coupon applied! You save Rs.%.0f", discount),
	}
}
