package repositories_test

import (
	"testing"

	"freshsea/internal/models"
	"freshsea/internal/repositories"

	"github.com/stretchr/testify/assert"
)

func TestMockProfileRepository_DebitWallet_IdempotentPerOrder(t *testing.T) {
	repo := repositories.NewMockProfileRepository()
	err := repo.Create(&models.Profile{ID: "u1", ReferralCode: "FSAAAAAA", WalletBalance: 500})
	assert.NoError(t, err)

	assert.NoError(t, repo.DebitWallet("u1", 200, "order-1"))

	// Retrying the same order's debit must not decrement again.
	assert.NoError(t, repo.DebitWallet("u1", 200, "order-1"))

	profile, err := repo.GetByID("u1")
	assert.NoError(t, err)
	assert.InDelta(t, 300, profile.WalletBalance, 1e-9)

	// A different order debits normally.
	assert.NoError(t, repo.DebitWallet("u1", 100, "order-2"))
	profile, _ = repo.GetByID("u1")
	assert.InDelta(t, 200, profile.WalletBalance, 1e-9)

	// Debits may never push the balance negative.
	err = repo.DebitWallet("u1", 999, "order-3")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient wallet balance")

	// Zero and negative amounts are caller bugs.
	assert.Error(t, repo.DebitWallet("u1", 0, "order-4"))
}

func TestMockProfileRepository_GrantReferralReward_OneShot(t *testing.T) {
	repo := repositories.NewMockProfileRepository()
	assert.NoError(t, repo.Create(&models.Profile{ID: "referrer", ReferralCode: "FSREF001", WalletBalance: 10}))
	assert.NoError(t, repo.Create(&models.Profile{ID: "newbie", ReferralCode: "FSNEW001", ReferredBy: "referrer"}))

	assert.NoError(t, repo.GrantReferralReward("newbie", 50))

	referrer, _ := repo.GetByID("referrer")
	assert.InDelta(t, 60, referrer.WalletBalance, 1e-9)
	assert.Equal(t, 1, referrer.ReferralCount)

	newbie, _ := repo.GetByID("newbie")
	assert.True(t, newbie.FirstOrderCompleted)

	// A retried grant is a no-op.
	assert.NoError(t, repo.GrantReferralReward("newbie", 50))
	referrer, _ = repo.GetByID("referrer")
	assert.InDelta(t, 60, referrer.WalletBalance, 1e-9)
	assert.Equal(t, 1, referrer.ReferralCount)
}

func TestMockCouponRepository_IncrementUsage_IdempotentPerOrder(t *testing.T) {
	repo := repositories.NewMockCouponRepository()
	assert.NoError(t, repo.Create(&models.Coupon{Code: "FRESH50", DiscountType: models.DiscountFlat, DiscountValue: 50, IsActive: true}))

	assert.NoError(t, repo.IncrementUsage("FRESH50", "order-1"))
	assert.NoError(t, repo.IncrementUsage("FRESH50", "order-1"))

	coupon, err := repo.GetByCode("FRESH50")
	assert.NoError(t, err)
	assert.Equal(t, 1, coupon.UsedCount)

	assert.NoError(t, repo.IncrementUsage("FRESH50", "order-2"))
	coupon, _ = repo.GetByCode("FRESH50")
	assert.Equal(t, 2, coupon.UsedCount)
}
