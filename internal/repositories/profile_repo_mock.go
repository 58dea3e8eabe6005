package repositories

import (
	"fmt"
	"sync"

	"freshsea/internal/models"
)

// MockProfileRepository is an in-memory implementation of ProfileRepository
// with the same idempotency guarantees as the GORM one.
type MockProfileRepository struct {
	profiles map[string]models.Profile
	debits   map[string]float64 // orderID -> amount
	mu       sync.Mutex
}

// NewMockProfileRepository creates a new instance of MockProfileRepository.
func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{
		profiles: make(map[string]models.Profile),
		debits:   make(map[string]float64),
	}
}

// GetByID returns a profile by its ID.
func (r *MockProfileRepository) GetByID(id string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, ok := r.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile with ID %s: %w", id, ErrNotFound)
	}
	return &profile, nil
}

// GetByReferralCode returns a profile by its referral code.
func (r *MockProfileRepository) GetByReferralCode(code string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, profile := range r.profiles {
		if profile.ReferralCode == code {
			found := profile
			return &found, nil
		}
	}
	return nil, fmt.Errorf("profile with referral code %s: %w", code, ErrNotFound)
}

// Create adds a new profile.
func (r *MockProfileRepository) Create(profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[profile.ID] = *profile
	return nil
}

// DebitWallet decrements the balance exactly once per order ID.
func (r *MockProfileRepository) DebitWallet(profileID string, amount float64, orderID string) error {
	if amount <= 0 {
		return fmt.Errorf("debit amount must be positive, got %.2f", amount)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, done := r.debits[orderID]; done {
		return nil
	}
	profile, ok := r.profiles[profileID]
	if !ok {
		return fmt.Errorf("profile with ID %s: %w", profileID, ErrNotFound)
	}
	if profile.WalletBalance < amount {
		return fmt.Errorf("insufficient wallet balance for profile %s (debit %.2f)", profileID, amount)
	}
	profile.WalletBalance -= amount
	r.profiles[profileID] = profile
	r.debits[orderID] = amount
	return nil
}

// GrantReferralReward flips first_order_completed once and credits the
// referrer on that single occasion.
func (r *MockProfileRepository) GrantReferralReward(profileID string, reward float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, ok := r.profiles[profileID]
	if !ok {
		return fmt.Errorf("profile with ID %s: %w", profileID, ErrNotFound)
	}
	if profile.FirstOrderCompleted {
		return nil
	}
	profile.FirstOrderCompleted = true
	r.profiles[profileID] = profile

	if profile.ReferredBy == "" {
		return nil
	}
	referrer, ok := r.profiles[profile.ReferredBy]
	if !ok {
		return nil
	}
	referrer.WalletBalance += reward
	referrer.ReferralCount++
	r.profiles[profile.ReferredBy] = referrer
	return nil
}
