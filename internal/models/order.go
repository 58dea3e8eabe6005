package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// statusTransitions encodes the legal forward chain
// pending -> confirmed -> processing -> shipped -> delivered, with cancelled
// reachable from every non-terminal state. delivered and cancelled are
// terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status admits no further transitions.
func IsTerminal(status OrderStatus) bool {
	return len(statusTransitions[status]) == 0
}

// ValidStatus reports whether the given value is a known order status.
func ValidStatus(status OrderStatus) bool {
	_, ok := statusTransitions[status]
	return ok
}

// PaymentMethod selects how the shopper pays.
type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentUPI  PaymentMethod = "upi"
	PaymentCOD  PaymentMethod = "cod"
)

// ValidPaymentMethod reports whether the given value is a supported method.
func ValidPaymentMethod(m PaymentMethod) bool {
	return m == PaymentCard || m == PaymentUPI || m == PaymentCOD
}

// PaymentStatus tracks the payment side of an order.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// DeliveryAddress is the address snapshot frozen into an order at creation
// time. Field validation drives the pre-checkout address check; the tag
// order matters because the first failing field names the error.
type DeliveryAddress struct {
	FullName     string `json:"full_name" validate:"required"`
	Phone        string `json:"phone" validate:"required,numeric,min=10"`
	AddressLine1 string `json:"address_line1" validate:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	PinCode      string `json:"pin_code" validate:"omitempty,numeric"`
}

// Order is created exactly once per successful checkout. Everything except
// Status and PaymentStatus is immutable after creation; the monetary
// breakdown always satisfies total = max(0, subtotal + delivery - coupon
// discount - wallet used).
type Order struct {
	ID               string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID           string          `json:"user_id" gorm:"type:varchar(36);index"`
	OrderNumber      string          `json:"order_number" gorm:"uniqueIndex;type:varchar(32)"`
	Status           OrderStatus     `json:"status" gorm:"type:varchar(16)"`
	Subtotal         float64         `json:"subtotal"`
	DeliveryCharge   float64         `json:"delivery_charge"`
	CouponCode       string          `json:"coupon_code" gorm:"type:varchar(32)"`
	CouponDiscount   float64         `json:"coupon_discount"`
	WalletUsed       float64         `json:"wallet_used"`
	Total            float64         `json:"total"`
	PaymentMethod    PaymentMethod   `json:"payment_method" gorm:"type:varchar(16)"`
	PaymentStatus    PaymentStatus   `json:"payment_status" gorm:"type:varchar(16)"`
	DeliveryAddress  DeliveryAddress `json:"delivery_address" gorm:"embedded;embeddedPrefix:addr_"`
	ExpectedDelivery time.Time       `json:"expected_delivery"`
	Items            []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	gorm.Model
}

// OrderItem is a frozen copy of a cart line taken at order-creation time.
// Name, vendor, and price are snapshotted so later catalog changes cannot
// retroactively alter a persisted order.
type OrderItem struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID     string  `json:"order_id" gorm:"type:varchar(36);index"`
	ProductID   string  `json:"product_id" gorm:"type:varchar(36)"`
	ProductName string  `json:"product_name"`
	VendorName  string  `json:"vendor_name"`
	ImageURL    string  `json:"image_url"`
	QuantityKg  float64 `json:"quantity_kg"`
	PricePerKg  float64 `json:"price_per_kg"`
	Total       float64 `json:"total"`
	gorm.Model
}
