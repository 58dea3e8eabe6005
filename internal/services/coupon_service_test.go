package services_test

import (
	"testing"
	"time"

	"freshsea/internal/models"
	"freshsea/internal/repositories"
	"freshsea/internal/services"

	"github.com/stretchr/testify/assert"
)

func newCouponFixture(t *testing.T) (*services.CouponService, *repositories.MockCouponRepository) {
	t.Helper()
	repo := repositories.NewMockCouponRepository()
	return services.NewCouponService(repo), repo
}

func TestCouponService_Evaluate_FlatDiscount(t *testing.T) {
	service, repo := newCouponFixture(t)
	assert.NoError(t, repo.Create(&models.Coupon{
		Code: "FRESH50", DiscountType: models.DiscountFlat, DiscountValue: 50,
		MinOrderAmount: 500, IsActive: true, ValidFrom: time.Now().Add(-time.Hour),
	}))

	result, err := service.Evaluate("fresh50", 1000)
	assert.NoError(t, err)
	assert.True(t, result.Valid)
	assert.InDelta(t, 50, result.Discount, 1e-9)
}

func TestCouponService_Evaluate_PercentCapped(t *testing.T) {
	service, repo := newCouponFixture(t)
	cap := 100.0
	assert.NoError(t, repo.Create(&models.Coupon{
		Code: "SEA20", DiscountType: models.DiscountPercent, DiscountValue: 20,
		MaxDiscount: &cap, IsActive: true, ValidFrom: time.Now().Add(-time.Hour),
	}))

	// 20% of 400 = 80, under the cap.
	result, err := service.Evaluate("SEA20", 400)
	assert.NoError(t, err)
	assert.True(t, result.Valid)
	assert.InDelta(t, 80, result.Discount, 1e-9)

	// 20% of 1000 = 200, capped at 100.
	result, err = service.Evaluate("SEA20", 1000)
	assert.NoError(t, err)
	assert.InDelta(t, 100, result.Discount, 1e-9)
}

func TestCouponService_Evaluate_BelowMinimum(t *testing.T) {
	service, repo := newCouponFixture(t)
	assert.NoError(t, repo.Create(&models.Coupon{
		Code: "FRESH50", DiscountType: models.DiscountFlat, DiscountValue: 50,
		MinOrderAmount: 500, IsActive: true, ValidFrom: time.Now().Add(-time.Hour),
	}))

	result, err := service.Evaluate("FRESH50", 250)
	assert.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Message, "Minimum order amount")
}

func TestCouponService_Evaluate_Expired(t *testing.T) {
	service, repo := newCouponFixture(t)
	expired := time.Now().Add(-time.Hour)
	assert.NoError(t, repo.Create(&models.Coupon{
		Code: "OLD10", DiscountType: models.DiscountFlat, DiscountValue: 10,
		IsActive: true, ValidFrom: time.Now().Add(-48 * time.Hour), ValidUntil: &expired,
	}))

	result, err := service.Evaluate("OLD10", 1000)
	assert.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Message, "expired")
}

func TestCouponService_Evaluate_UsageExhausted(t *testing.T) {
	service, repo := newCouponFixture(t)
	limit := 2
	assert.NoError(t, repo.Create(&models.Coupon{
		Code: "RARE", DiscountType: models.DiscountFlat, DiscountValue: 25,
		IsActive: true, UsageLimit: &limit, UsedCount: 2, ValidFrom: time.Now().Add(-time.Hour),
	}))

	result, err := service.Evaluate("RARE", 1000)
	assert.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Message, "fully redeemed")
}

func TestCouponService_Evaluate_InactiveAndUnknown(t *testing.T) {
	service, repo := newCouponFixture(t)
	assert.NoError(t, repo.Create(&models.Coupon{
		Code: "PAUSED", DiscountType: models.DiscountFlat, DiscountValue: 25,
		IsActive: false, ValidFrom: time.Now().Add(-time.Hour),
	}))

	result, err := service.Evaluate("PAUSED", 1000)
	assert.NoError(t, err)
	assert.False(t, result.Valid)

	result, err = service.Evaluate("NOSUCH", 1000)
	assert.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "Invalid coupon code", result.Message)
}

func TestCouponService_Evaluate_EmptyCode(t *testing.T) {
	service, _ := newCouponFixture(t)

	_, err := service.Evaluate("   ", 1000)
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestCouponService_Evaluate_DiscountNeverExceedsOrderAmount(t *testing.T) {
	service, repo := newCouponFixture(t)
	assert.NoError(t, repo.Create(&models.Coupon{
		Code: "BIG", DiscountType: models.DiscountFlat, DiscountValue: 500,
		IsActive: true, ValidFrom: time.Now().Add(-time.Hour),
	}))

	result, err := service.Evaluate("BIG", 300)
	assert.NoError(t, err)
	assert.True(t, result.Valid)
	assert.InDelta(t, 300, result.Discount, 1e-9)
}
