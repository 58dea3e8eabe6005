package models

import "gorm.io/gorm"

// CartItem is one line of a shopper's cart. A shopper has at most one line
// per product; adding the same product again merges by summing quantity.
type CartItem struct {
	ID         string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID     string   `json:"user_id" gorm:"type:varchar(36);uniqueIndex:idx_cart_user_product" validate:"required"`
	ProductID  string   `json:"product_id" gorm:"type:varchar(36);uniqueIndex:idx_cart_user_product" validate:"required"`
	QuantityKg float64  `json:"quantity_kg" validate:"required,gt=0"`
	Product    *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	gorm.Model
}
