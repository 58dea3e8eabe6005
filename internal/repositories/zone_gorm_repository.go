package repositories

import (
	"errors"
	"fmt"

	"freshsea/internal/models"

	"gorm.io/gorm"
)

// GORMZoneRepository is a GORM implementation of ZoneRepository.
type GORMZoneRepository struct {
	db *gorm.DB
}

// NewGORMZoneRepository creates a new instance of GORMZoneRepository.
func NewGORMZoneRepository(db *gorm.DB) *GORMZoneRepository {
	return &GORMZoneRepository{
		db: db,
	}
}

// GetByPinCode retrieves the active delivery zone for a pin code.
func (r *GORMZoneRepository) GetByPinCode(pinCode string) (*models.DeliveryZone, error) {
	var zone models.DeliveryZone
	if err := r.db.First(&zone, "pin_code = ? AND is_active = ?", pinCode, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("delivery zone for pin code %s: %w", pinCode, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get delivery zone for pin code %s: %w", pinCode, err)
	}
	return &zone, nil
}

// Create adds a new delivery zone.
func (r *GORMZoneRepository) Create(zone *models.DeliveryZone) error {
	if err := r.db.Create(zone).Error; err != nil {
		return fmt.Errorf("failed to create delivery zone: %w", err)
	}
	return nil
}
