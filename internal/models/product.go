package models

import "gorm.io/gorm"

// Vendor represents a seller whose goods are listed in the catalog.
type Vendor struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	LogoURL     string  `json:"logo_url" validate:"omitempty,url"`
	Rating      float64 `json:"rating" validate:"gte=0,lte=5"`
	IsActive    bool    `json:"is_active"`
	gorm.Model          // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Product represents a perishable good sold by weight.
// StockKg is a high-churn value owned by the catalog; the engine only reads
// it and requests decrements through ProductRepository.DeductStock.
type Product struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	VendorID    string  `json:"vendor_id" gorm:"type:varchar(36);index"`
	Vendor      *Vendor `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
	Name        string  `json:"name" validate:"required,min=3,max=100"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
	PricePerKg  float64 `json:"price_per_kg" validate:"required,gt=0"`
	StockKg     float64 `json:"stock_kg" validate:"gte=0"`
	MinOrderKg  float64 `json:"min_order_kg" validate:"gte=0"`
	IsFeatured  bool    `json:"is_featured"`
	IsAvailable bool    `json:"is_available"`
	gorm.Model
}
