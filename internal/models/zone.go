package models

import "gorm.io/gorm"

// DeliveryZone is a serviceable pin code with its delivery charge.
type DeliveryZone struct {
	PinCode        string  `json:"pin_code" gorm:"primaryKey;type:varchar(10)" validate:"required,numeric"`
	AreaName       string  `json:"area_name" validate:"omitempty,max=100"`
	City           string  `json:"city" validate:"omitempty,max=100"`
	IsActive       bool    `json:"is_active"`
	DeliveryCharge float64 `json:"delivery_charge" validate:"gte=0"`
	gorm.Model
}
