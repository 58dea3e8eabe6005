package repositories

import (
	"freshsea/internal/models"
)

// ZoneRepository defines the interface for delivery-zone lookups.
type ZoneRepository interface {
	// GetByPinCode returns the active zone for a pin code, or ErrNotFound.
	GetByPinCode(pinCode string) (*models.DeliveryZone, error)
	Create(zone *models.DeliveryZone) error
}
