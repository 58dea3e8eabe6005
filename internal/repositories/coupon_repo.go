package repositories

import (
	"freshsea/internal/models"
)

// CouponRepository defines the interface for coupon data access. Validate is
// the remote authority of the coupon rules: it judges a code against an
// order amount without mutating anything. IncrementUsage is a separate step
// performed only after the order is durably created, and is idempotent per
// order so a retried settlement cannot charge usage twice.
type CouponRepository interface {
	GetByCode(code string) (*models.Coupon, error)
	Create(coupon *models.Coupon) error
	Validate(code string, orderAmount float64) (*models.CouponValidation, error)
	IncrementUsage(code, orderID string) error
}
