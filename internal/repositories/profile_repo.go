package repositories

import (
	"freshsea/internal/models"
)

// ProfileRepository defines the interface for profile data access.
// DebitWallet is keyed by order ID and must be idempotent per order: a
// retried debit for the same order decrements the balance exactly once.
// GrantReferralReward checks and flips first_order_completed atomically so a
// retried grant cannot pay the referrer twice.
type ProfileRepository interface {
	GetByID(id string) (*models.Profile, error)
	GetByReferralCode(code string) (*models.Profile, error)
	Create(profile *models.Profile) error
	DebitWallet(profileID string, amount float64, orderID string) error
	GrantReferralReward(profileID string, reward float64) error
}
