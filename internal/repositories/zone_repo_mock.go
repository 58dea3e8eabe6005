package repositories

import (
	"fmt"
	"sync"

	"freshsea/internal/models"
)

// MockZoneRepository is an in-memory implementation of ZoneRepository.
type MockZoneRepository struct {
	zones map[string]models.DeliveryZone
	mu    sync.RWMutex
}

// NewMockZoneRepository creates a new instance of MockZoneRepository.
func NewMockZoneRepository() *MockZoneRepository {
	return &MockZoneRepository{
		zones: make(map[string]models.DeliveryZone),
	}
}

// GetByPinCode returns the active zone for a pin code.
func (r *MockZoneRepository) GetByPinCode(pinCode string) (*models.DeliveryZone, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	zone, ok := r.zones[pinCode]
	if !ok || !zone.IsActive {
		return nil, fmt.Errorf("delivery zone for pin code %s: %w", pinCode, ErrNotFound)
	}
	return &zone, nil
}

// Create adds a new delivery zone.
func (r *MockZoneRepository) Create(zone *models.DeliveryZone) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.zones[zone.PinCode] = *zone
	return nil
}
