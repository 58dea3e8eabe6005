package repositories

import (
	"errors"
	"fmt"

	"freshsea/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProfileRepository is a GORM implementation of ProfileRepository.
type GORMProfileRepository struct {
	db *gorm.DB
}

// NewGORMProfileRepository creates a new instance of GORMProfileRepository.
func NewGORMProfileRepository(db *gorm.DB) *GORMProfileRepository {
	return &GORMProfileRepository{
		db: db,
	}
}

// GetByID retrieves a profile by its ID.
func (r *GORMProfileRepository) GetByID(id string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("profile with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile by ID %s: %w", id, err)
	}
	return &profile, nil
}

// GetByReferralCode retrieves a profile by its referral code.
func (r *GORMProfileRepository) GetByReferralCode(code string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.First(&profile, "referral_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("profile with referral code %s: %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile by referral code %s: %w", code, err)
	}
	return &profile, nil
}

// Create creates a new profile.
func (r *GORMProfileRepository) Create(profile *models.Profile) error {
	if err := r.db.Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// DebitWallet decrements a profile's wallet balance, exactly once per order.
// The ledger row with its unique order_id is written in the same transaction
// as the balance update; a retry for the same order sees the row and returns
// without touching the balance.
func (r *GORMProfileRepository) DebitWallet(profileID string, amount float64, orderID string) error {
	if amount <= 0 {
		return fmt.Errorf("debit amount must be positive, got %.2f", amount)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.WalletTransaction
		err := tx.First(&existing, "order_id = ?", orderID).Error
		if err == nil {
			return nil // already debited for this order
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check wallet ledger for order %s: %w", orderID, err)
		}

		res := tx.Model(&models.Profile{}).
			Where("id = ? AND wallet_balance >= ?", profileID, amount).
			Update("wallet_balance", gorm.Expr("wallet_balance - ?", amount))
		if res.Error != nil {
			return fmt.Errorf("failed to debit wallet for profile %s: %w", profileID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("insufficient wallet balance for profile %s (debit %.2f)", profileID, amount)
		}

		entry := models.WalletTransaction{
			ID:        uuid.New().String(),
			ProfileID: profileID,
			OrderID:   orderID,
			Amount:    amount,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to record wallet debit for order %s: %w", orderID, err)
		}
		return nil
	})
}

// GrantReferralReward pays the referrer of a profile completing its first
// order. The profile row is locked while first_order_completed is checked
// and flipped, so a retried grant is a no-op.
func (r *GORMProfileRepository) GrantReferralReward(profileID string, reward float64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&profile, "id = ?", profileID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("profile with ID %s: %w", profileID, ErrNotFound)
			}
			return fmt.Errorf("failed to lock profile %s: %w", profileID, err)
		}

		if profile.FirstOrderCompleted {
			return nil // already granted
		}

		if err := tx.Model(&models.Profile{}).
			Where("id = ?", profileID).
			Update("first_order_completed", true).Error; err != nil {
			return fmt.Errorf("failed to mark first order for profile %s: %w", profileID, err)
		}

		if profile.ReferredBy == "" {
			return nil
		}

		res := tx.Model(&models.Profile{}).
			Where("id = ?", profile.ReferredBy).
			Updates(map[string]interface{}{
				"wallet_balance": gorm.Expr("wallet_balance + ?", reward),
				"referral_count": gorm.Expr("referral_count + 1"),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to credit referrer %s: %w", profile.ReferredBy, res.Error)
		}
		return nil
	})
}
