package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"freshsea/internal/models"
	"freshsea/internal/repositories"
	"freshsea/pkg/rabbitmq"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CheckoutService orchestrates a checkout attempt: address validation, cart
// refresh, stock verification, per-line atomic deduction, order and frozen
// line persistence, settlement, status assignment, and cart clear. The steps
// form a saga of externally-atomic operations with no enclosing transaction:
// a failure after partial deduction leaves earlier deductions in place (see
// the deducted-lines log on the persistence path).
type CheckoutService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	profileRepo repositories.ProfileRepository
	orderRepo   repositories.OrderRepository
	zoneRepo    repositories.ZoneRepository
	stock       *StockService
	coupons     *CouponService
	mqClient    *rabbitmq.Client
	validate    *validator.Validate

	defaultDeliveryCharge float64
	referralReward        float64
}

// CheckoutConfig carries the tunable amounts of the orchestrator.
type CheckoutConfig struct {
	DefaultDeliveryCharge float64
	ReferralReward        float64
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	cartRepo repositories.CartRepository,
	productRepo repositories.ProductRepository,
	profileRepo repositories.ProfileRepository,
	orderRepo repositories.OrderRepository,
	zoneRepo repositories.ZoneRepository,
	stock *StockService,
	coupons *CouponService,
	mqClient *rabbitmq.Client,
	cfg CheckoutConfig,
) *CheckoutService {
	return &CheckoutService{
		cartRepo:              cartRepo,
		productRepo:           productRepo,
		profileRepo:           profileRepo,
		orderRepo:             orderRepo,
		zoneRepo:              zoneRepo,
		stock:                 stock,
		coupons:               coupons,
		mqClient:              mqClient,
		validate:              validator.New(),
		defaultDeliveryCharge: cfg.DefaultDeliveryCharge,
		referralReward:        cfg.ReferralReward,
	}
}

// CheckoutInput is everything the shopper supplies for one attempt.
type CheckoutInput struct {
	Address       models.DeliveryAddress `json:"address"`
	CouponCode    string                 `json:"coupon_code"`
	UseWallet     bool                   `json:"use_wallet"`
	PaymentMethod models.PaymentMethod   `json:"payment_method"`
}

// addressFieldLabels maps validator field names to the user-facing labels
// used in the first-failure error message.
var addressFieldLabels = map[string]string{
	"FullName":     "name",
	"Phone":        "phone number",
	"AddressLine1": "address",
	"City":         "city",
	"State":        "state",
	"PinCode":      "PIN code",
}

func (s *CheckoutService) validateAddress(address models.DeliveryAddress) error {
	err := s.validate.Struct(address)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		label, ok := addressFieldLabels[fieldErrs[0].Field()]
		if !ok {
			label = strings.ToLower(fieldErrs[0].Field())
		}
		return fmt.Errorf("%w: please enter a valid %s", ErrValidation, label)
	}
	return fmt.Errorf("%w: invalid delivery address", ErrValidation)
}

// deliveryCharge resolves the charge for the destination pin code, falling
// back to the configured default when no active zone is known.
func (s *CheckoutService) deliveryCharge(pinCode string) float64 {
	if pinCode == "" {
		return s.defaultDeliveryCharge
	}
	zone, err := s.zoneRepo.GetByPinCode(pinCode)
	if err != nil {
		return s.defaultDeliveryCharge
	}
	if zone.DeliveryCharge > 0 {
		return zone.DeliveryCharge
	}
	return s.defaultDeliveryCharge
}

// PlaceOrder runs one checkout attempt end to end and returns the created
// order. Every abort path carries a specific, actionable message, and the
// cart is left untouched unless the entire attempt succeeds.
func (s *CheckoutService) PlaceOrder(userID string, input CheckoutInput) (*models.Order, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: please sign in to place an order", ErrUnauthenticated)
	}

	// Step 1: address and payment-method validation.
	if err := s.validateAddress(input.Address); err != nil {
		return nil, err
	}
	if !models.ValidPaymentMethod(input.PaymentMethod) {
		return nil, fmt.Errorf("%w: unsupported payment method %q", ErrValidation, input.PaymentMethod)
	}

	// Step 2: refresh the cart from storage and re-check stock for every
	// line. Any shortfall aborts the whole attempt before a single
	// deduction; no partial order is created here.
	items, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: your cart is empty", ErrValidation)
	}

	requests := make([]StockRequest, 0, len(items))
	for _, item := range items {
		requests = append(requests, StockRequest{ProductID: item.ProductID, QuantityKg: item.QuantityKg})
	}
	checks, err := s.stock.VerifyItems(requests)
	if err != nil {
		return nil, err
	}
	if shortfalls := Shortfalls(checks); len(shortfalls) > 0 {
		msgs := make([]string, 0, len(shortfalls))
		for _, check := range shortfalls {
			msgs = append(msgs, check.Message())
		}
		return nil, fmt.Errorf("%w: %s", ErrStockConflict, strings.Join(msgs, "; "))
	}

	// The pre-deduction snapshot: prices are fixed here and never re-read,
	// so a concurrent catalog change cannot alter an already-priced order.
	var subtotal float64
	for _, item := range items {
		if item.Product == nil {
			return nil, fmt.Errorf("%w: product data missing for cart line %s", ErrUnavailable, item.ID)
		}
		subtotal += item.Product.PricePerKg * item.QuantityKg
	}

	deliveryCharge := s.deliveryCharge(input.Address.PinCode)

	// Coupon evaluation happens against the fresh subtotal, never a stale
	// one. A rejected coupon is non-fatal: the attempt proceeds without it.
	couponCode := ""
	var couponDiscount float64
	if strings.TrimSpace(input.CouponCode) != "" {
		result, err := s.coupons.Evaluate(input.CouponCode, subtotal)
		if err != nil {
			return nil, err
		}
		if result.Valid {
			couponCode = NormalizeCode(input.CouponCode)
			couponDiscount = result.Discount
		} else {
			log.Printf("checkout: coupon %s rejected for user %s: %s", NormalizeCode(input.CouponCode), userID, result.Message)
		}
	}

	profile, err := s.profileRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var walletUsed float64
	if input.UseWallet {
		walletUsed = UsableWalletCredit(profile.WalletBalance, subtotal+deliveryCharge-couponDiscount)
	}

	total := subtotal + deliveryCharge - couponDiscount - walletUsed
	if total < 0 {
		total = 0
	}

	// Step 3: atomic per-line deduction, strictly in cart order. The first
	// failure halts the attempt; lines already deducted are not rolled back.
	var deducted []models.CartItem
	for _, item := range items {
		result, err := s.productRepo.DeductStock(item.ProductID, item.QuantityKg)
		if err != nil {
			s.logDeducted(userID, deducted, fmt.Sprintf("deduction call failed for product %s", item.ProductID))
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: product %s is no longer available", ErrStockConflict, item.ProductID)
			}
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if !result.Success {
			s.logDeducted(userID, deducted, fmt.Sprintf("stock conflict on product %s", item.ProductID))
			return nil, fmt.Errorf("%w: Sorry, %s now has only %.1f kg left",
				ErrStockConflict, result.ProductName, result.AvailableStock)
		}
		deducted = append(deducted, item)
	}

	// Step 4: persist the order, then the frozen lines from the
	// pre-deduction snapshot.
	order := &models.Order{
		ID:               uuid.New().String(),
		UserID:           userID,
		OrderNumber:      newOrderNumber(),
		Status:           models.StatusPending,
		Subtotal:         subtotal,
		DeliveryCharge:   deliveryCharge,
		CouponCode:       couponCode,
		CouponDiscount:   couponDiscount,
		WalletUsed:       walletUsed,
		Total:            total,
		PaymentMethod:    input.PaymentMethod,
		PaymentStatus:    models.PaymentPending,
		DeliveryAddress:  input.Address,
		ExpectedDelivery: time.Now().AddDate(0, 0, 1),
	}
	if err := s.orderRepo.Create(order); err != nil {
		s.logDeducted(userID, deducted, "order record write failed")
		return nil, fmt.Errorf("%w: failed to create order: %v", ErrPersistence, err)
	}

	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			VendorName:  vendorName(item),
			ImageURL:    item.Product.ImageURL,
			QuantityKg:  item.QuantityKg,
			PricePerKg:  item.Product.PricePerKg,
			Total:       item.Product.PricePerKg * item.QuantityKg,
		})
	}
	if err := s.orderRepo.CreateItems(order.ID, orderItems); err != nil {
		s.logDeducted(userID, deducted, fmt.Sprintf("order line write failed for order %s", order.ID))
		return nil, fmt.Errorf("%w: failed to persist order lines: %v", ErrPersistence, err)
	}
	order.Items = orderItems

	// Step 5: settlement. Each side effect is independent; a failure is
	// logged and does not block the others or fail the order.
	if walletUsed > 0 {
		if err := s.profileRepo.DebitWallet(userID, walletUsed, order.ID); err != nil {
			log.Printf("checkout: wallet debit failed for order %s: %v", order.ID, err)
		}
	}
	if couponCode != "" {
		if err := s.couponRepoIncrement(couponCode, order.ID); err != nil {
			log.Printf("checkout: coupon usage increment failed for order %s: %v", order.ID, err)
		}
	}
	if !profile.FirstOrderCompleted {
		if err := s.profileRepo.GrantReferralReward(userID, s.referralReward); err != nil {
			log.Printf("checkout: referral reward failed for user %s: %v", userID, err)
		}
	}

	// Step 6: status assignment. Non-cash payments with a positive total
	// wait for external confirmation; everything else confirms immediately.
	if input.PaymentMethod == models.PaymentCOD || total == 0 {
		if err := s.orderRepo.UpdateStatus(order.ID, models.StatusConfirmed, models.PaymentPending); err != nil {
			log.Printf("checkout: failed to confirm order %s: %v", order.ID, err)
		} else {
			order.Status = models.StatusConfirmed
		}
	}

	s.publishOrderEvent("order.created", order)

	// Step 7: clear the cart, only now that everything above has succeeded.
	if err := s.cartRepo.DeleteByUser(userID); err != nil {
		log.Printf("checkout: failed to clear cart for user %s after order %s: %v", userID, order.ID, err)
	}

	return order, nil
}

// couponRepoIncrement reaches the coupon authority through the evaluator's
// repository so the orchestrator needs no second coupon dependency.
func (s *CheckoutService) couponRepoIncrement(code, orderID string) error {
	return s.coupons.couponRepo.IncrementUsage(code, orderID)
}

// logDeducted records lines whose stock was already committed-deducted when
// a later step failed. Nothing compensates these automatically; the log is
// the operator's reconciliation trail.
func (s *CheckoutService) logDeducted(userID string, deducted []models.CartItem, reason string) {
	if len(deducted) == 0 {
		return
	}
	lines := make([]string, 0, len(deducted))
	for _, item := range deducted {
		lines = append(lines, fmt.Sprintf("%s:%.1fkg", item.ProductID, item.QuantityKg))
	}
	log.Printf("checkout: attempt for user %s aborted (%s) with stock already deducted: %s",
		userID, reason, strings.Join(lines, ", "))
}

func (s *CheckoutService) publishOrderEvent(event string, order *models.Order) {
	if s.mqClient == nil {
		log.Println("RabbitMQ client is not initialized. Skipping message publication.")
		return
	}
	payload := map[string]interface{}{
		"orderID":     order.ID,
		"orderNumber": order.OrderNumber,
		"userID":      order.UserID,
		"status":      order.Status,
		"total":       order.Total,
	}
	if err := s.mqClient.PublishOrderEvent(event, payload); err != nil {
		log.Printf("Warning: Failed to publish %s event for order %s: %v", event, order.ID, err)
	}
}

func vendorName(item models.CartItem) string {
	if item.Product != nil && item.Product.Vendor != nil {
		return item.Product.Vendor.Name
	}
	return "Vendor"
}

// newOrderNumber builds the human-readable order number.
func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:6]
	return fmt.Sprintf("FS-%s-%s", time.Now().Format("20060102"), suffix)
}
