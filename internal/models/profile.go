package models

import "gorm.io/gorm"

// Profile holds the shopper-facing account state for a user: wallet balance,
// referral data, and the one-shot first-order flag that gates the referral
// payout. WalletBalance is only ever decremented through
// ProfileRepository.DebitWallet.
type Profile struct {
	ID                  string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"required"`
	FullName            string  `json:"full_name" validate:"omitempty,max=100"`
	Phone               string  `json:"phone" validate:"omitempty,min=10,numeric"`
	ReferralCode        string  `json:"referral_code" gorm:"uniqueIndex;type:varchar(16)" validate:"required"`
	ReferredBy          string  `json:"referred_by" gorm:"type:varchar(36)"` // profile ID of the referrer, if any
	WalletBalance       float64 `json:"wallet_balance" validate:"gte=0"`
	ReferralCount       int     `json:"referral_count" validate:"gte=0"`
	FirstOrderCompleted bool    `json:"first_order_completed"`
	gorm.Model
}

// WalletTransaction is the debit ledger. The unique order_id is what makes
// DebitWallet idempotent per order: a retried debit for the same order finds
// the existing row and does not decrement the balance again.
type WalletTransaction struct {
	ID        string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProfileID string  `json:"profile_id" gorm:"type:varchar(36);index"`
	OrderID   string  `json:"order_id" gorm:"type:varchar(36);uniqueIndex"`
	Amount    float64 `json:"amount"`
	gorm.Model
}
