package models

import (
	"time"

	"gorm.io/gorm"
)

// Discount types supported by coupons.
const (
	DiscountFlat    = "flat"
	DiscountPercent = "percent"
)

// Coupon is a discount code. Its used_count is mutated only through
// CouponRepository.IncrementUsage, exactly once per successful order.
type Coupon struct {
	Code           string     `json:"code" gorm:"primaryKey;type:varchar(32)" validate:"required,uppercase"`
	Description    string     `json:"description" validate:"omitempty,max=255"`
	DiscountType   string     `json:"discount_type" validate:"required,oneof=flat percent"`
	DiscountValue  float64    `json:"discount_value" validate:"required,gt=0"`
	MinOrderAmount float64    `json:"min_order_amount" validate:"gte=0"`
	MaxDiscount    *float64   `json:"max_discount"` // cap for percent discounts; nil means uncapped
	IsActive       bool       `json:"is_active"`
	UsageLimit     *int       `json:"usage_limit"` // nil means unlimited
	UsedCount      int        `json:"used_count"`
	ValidFrom      time.Time  `json:"valid_from"`
	ValidUntil     *time.Time `json:"valid_until"` // nil means no expiry
	gorm.Model
}

// CouponRedemption records that an order consumed one usage of a coupon.
// The unique order_id makes the usage increment idempotent under retries.
type CouponRedemption struct {
	ID      string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Code    string `json:"code" gorm:"type:varchar(32);index"`
	OrderID string `json:"order_id" gorm:"type:varchar(36);uniqueIndex"`
	gorm.Model
}

// CouponValidation is the result of evaluating a coupon against an order
// amount. Message is user-facing and actionable.
type CouponValidation struct {
	Valid    bool    `json:"valid"`
	Discount float64 `json:"discount"`
	Message  string  `json:"message"`
}
