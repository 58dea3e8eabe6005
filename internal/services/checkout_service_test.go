package services_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"freshsea/internal/models"
	"freshsea/internal/repositories"
	"freshsea/internal/services"

	"github.com/stretchr/testify/assert"
)

type checkoutFixture struct {
	products *repositories.MockProductRepository
	carts    *repositories.MockCartRepository
	profiles *repositories.MockProfileRepository
	orders   *repositories.MockOrderRepository
	zones    *repositories.MockZoneRepository
	coupons  *repositories.MockCouponRepository
	service  *services.CheckoutService
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	f := &checkoutFixture{
		products: repositories.NewMockProductRepository(),
		profiles: repositories.NewMockProfileRepository(),
		orders:   repositories.NewMockOrderRepository(),
		zones:    repositories.NewMockZoneRepository(),
		coupons:  repositories.NewMockCouponRepository(),
	}
	f.carts = repositories.NewMockCartRepository(f.products)
	f.service = services.NewCheckoutService(
		f.carts, f.products, f.profiles, f.orders, f.zones,
		services.NewStockService(f.products),
		services.NewCouponService(f.coupons),
		nil,
		services.CheckoutConfig{DefaultDeliveryCharge: 40, ReferralReward: 50},
	)

	assert.NoError(t, f.products.Create(&models.Product{
		ID: "p1", Name: "Seer Fish", VendorID: "v1", PricePerKg: 500,
		StockKg: 10, MinOrderKg: 0.5, IsAvailable: true,
	}))
	assert.NoError(t, f.profiles.Create(&models.Profile{ID: "u1", ReferralCode: "FSAAAAAA"}))
	return f
}

func validAddress() models.DeliveryAddress {
	return models.DeliveryAddress{
		FullName:     "Asha Nair",
		Phone:        "9876543210",
		AddressLine1: "12 Marine Drive",
		City:         "Kochi",
		State:        "Kerala",
		PinCode:      "682001",
	}
}

func TestCheckoutService_PlaceOrder_CashOnDelivery(t *testing.T) {
	f := newCheckoutFixture(t)
	assert.NoError(t, f.carts.Create(&models.CartItem{UserID: "u1", ProductID: "p1", QuantityKg: 0.5}))

	order, err := f.service.PlaceOrder("u1", services.CheckoutInput{
		Address: validAddress(), PaymentMethod: models.PaymentCOD,
	})
	assert.NoError(t, err)
	assert.InDelta(t, 250, order.Subtotal, 1e-9)
	assert.InDelta(t, 40, order.DeliveryCharge, 1e-9)
	assert.InDelta(t, 290, order.Total, 1e-9)
	assert.Equal(t, models.StatusConfirmed, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "FS-"))
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 1), order.ExpectedDelivery, time.Minute)

	if assert.Len(t, order.Items, 1) {
		assert.Equal(t, "Seer Fish", order.Items[0].ProductName)
		assert.InDelta(t, 250, order.Items[0].Total, 1e-9)
	}

	// Stock was deducted and the cart is gone.
	product, err := f.products.GetByID("p1")
	assert.NoError(t, err)
	assert.InDelta(t, 9.5, product.StockKg, 1e-9)
	items, err := f.carts.GetByUser("u1")
	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestCheckoutService_PlaceOrder_CardStaysPending(t *testing.T) {
	f := newCheckoutFixture(t)
	assert.NoError(t, f.carts.Create(&models.CartItem{UserID: "u1", ProductID: "p1", QuantityKg: 1}))

	order, err := f.service.PlaceOrder("u1", services.CheckoutInput{
		Address: validAddress(), PaymentMethod: models.PaymentCard,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
}

func TestCheckoutService_PlaceOrder_WalletCoversTotal(t *testing.T) {
	f := newCheckoutFixture(t)
	assert.NoError(t, f.profiles.Create(&models.Profile{
		ID: "u2", ReferralCode: "FSBBBBBB", WalletBalance: 2000, FirstOrderCompleted: true,
	}))
	assert.NoError(t, f.coupons.Create(&models.Coupon{
		Code: "FLAT100", DiscountType: models.DiscountFlat, DiscountValue: 100,
		IsActive: true, ValidFrom: time.Now().Add(-time.Hour),
	}))
	assert.NoError(t, f.carts.Create(&models.CartItem{UserID: "u2", ProductID: "p1", QuantityKg: 2}))

	order, err := f.service.PlaceOrder("u2", services.CheckoutInput{
		Address:       validAddress(),
		CouponCode:    "flat100",
		UseWallet:     true,
		PaymentMethod: models.PaymentCard,
	})
	assert.NoError(t, err)
	assert.InDelta(t, 1000, order.Subtotal, 1e-9)
	assert.InDelta(t, 100, order.CouponDiscount, 1e-9)
	assert.InDelta(t, 940, order.WalletUsed, 1e-9)
	assert.InDelta(t, 0, order.Total, 1e-9)
	// A fully wallet-funded order confirms immediately even on card.
	assert.Equal(t, models.StatusConfirmed, order.Status)

	profile, err := f.profiles.GetByID("u2")
	assert.NoError(t, err)
	assert.InDelta(t, 1060, profile.WalletBalance, 1e-9)

	coupon, err := f.coupons.GetByCode("FLAT100")
	assert.NoError(t, err)
	assert.Equal(t, 1, coupon.UsedCount)
}

func TestCheckoutService_PlaceOrder_RejectedCouponIsNotFatal(t *testing.T) {
	f := newCheckoutFixture(t)
	assert.NoError(t, f.carts.Create(&models.CartItem{UserID: "u1", ProductID: "p1", QuantityKg: 1}))

	order, err := f.service.PlaceOrder("u1", services.CheckoutInput{
		Address:       validAddress(),
		CouponCode:    "NOSUCH",
		PaymentMethod: models.PaymentCOD,
	})
	assert.NoError(t, err)
	assert.Empty(t, order.CouponCode)
	assert.InDelta(t, 0, order.CouponDiscount, 1e-9)
	assert.InDelta(t, 540, order.Total, 1e-9)
}

func TestCheckoutService_PlaceOrder_VerificationBlocksBeforeDeduction(t *testing.T) {
	f := newCheckoutFixture(t)
	assert.NoError(t, f.products.Create(&models.Product{
		ID: "p2", Name: "Tiger Prawns", PricePerKg: 900, StockKg: 1.2, IsAvailable: true,
	}))
	assert.NoError(t, f.carts.Create(&models.CartItem{UserID: "u1", ProductID: "p2", QuantityKg: 2}))

	_, err := f.service.PlaceOrder("u1", services.CheckoutInput{
		Address: validAddress(), PaymentMethod: models.PaymentCOD,
	})
	assert.ErrorIs(t, err, services.ErrStockConflict)
	assert.Contains(t, err.Error(), "only 1.2 kg left")

	// Nothing was touched: stock, cart and order store are all intact.
	product, err := f.products.GetByID("p2")
	assert.NoError(t, err)
	assert.InDelta(t, 1.2, product.StockKg, 1e-9)
	items, err := f.carts.GetByUser("u1")
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	orders, err := f.orders.GetByUser("u1")
	assert.NoError(t, err)
	assert.Empty(t, orders)
}

// inflatedStockRepo over-reports one product's stock on reads while leaving
// the write path honest, reproducing a shopper who loses the race between
// the advisory check and the deduction.
type inflatedStockRepo struct {
	*repositories.MockProductRepository
	productID string
	reported  float64
}

func (r *inflatedStockRepo) GetByID(id string) (*models.Product, error) {
	product, err := r.MockProductRepository.GetByID(id)
	if err != nil {
		return nil, err
	}
	if id == r.productID {
		product.StockKg = r.reported
	}
	return product, nil
}

func TestCheckoutService_PlaceOrder_PartialDeductionNotRolledBack(t *testing.T) {
	products := repositories.NewMockProductRepository()
	assert.NoError(t, products.Create(&models.Product{
		ID: "p1", Name: "Seer Fish", PricePerKg: 500, StockKg: 10, IsAvailable: true,
	}))
	assert.NoError(t, products.Create(&models.Product{
		ID: "p2", Name: "Tiger Prawns", PricePerKg: 900, StockKg: 1, IsAvailable: true,
	}))
	reads := &inflatedStockRepo{MockProductRepository: products, productID: "p2", reported: 5}

	carts := repositories.NewMockCartRepository(reads)
	profiles := repositories.NewMockProfileRepository()
	assert.NoError(t, profiles.Create(&models.Profile{ID: "u1", ReferralCode: "FSAAAAAA"}))

	service := services.NewCheckoutService(
		carts, products, profiles,
		repositories.NewMockOrderRepository(),
		repositories.NewMockZoneRepository(),
		services.NewStockService(reads),
		services.NewCouponService(repositories.NewMockCouponRepository()),
		nil,
		services.CheckoutConfig{DefaultDeliveryCharge: 40, ReferralReward: 50},
	)

	assert.NoError(t, carts.Create(&models.CartItem{UserID: "u1", ProductID: "p1", QuantityKg: 2}))
	assert.NoError(t, carts.Create(&models.CartItem{UserID: "u1", ProductID: "p2", QuantityKg: 2}))

	_, err := service.PlaceOrder("u1", services.CheckoutInput{
		Address: validAddress(), PaymentMethod: models.PaymentCOD,
	})
	assert.ErrorIs(t, err, services.ErrStockConflict)

	// The first line's deduction stands; only the failing line is untouched.
	p1, err := products.GetByID("p1")
	assert.NoError(t, err)
	assert.InDelta(t, 8, p1.StockKg, 1e-9)
	p2, err := products.GetByID("p2")
	assert.NoError(t, err)
	assert.InDelta(t, 1, p2.StockKg, 1e-9)

	// The cart survives so the shopper can retry.
	items, err := carts.GetByUser("u1")
	assert.NoError(t, err)
	assert.Len(t, items, 2)
}

// failingOrderRepo rejects every order write, standing in for a storage
// outage hit after stock has already been committed.
type failingOrderRepo struct {
	*repositories.MockOrderRepository
}

func (r *failingOrderRepo) Create(order *models.Order) error {
	return errors.New("database unavailable")
}

func TestCheckoutService_PlaceOrder_PersistenceFailureAfterDeduction(t *testing.T) {
	products := repositories.NewMockProductRepository()
	assert.NoError(t, products.Create(&models.Product{
		ID: "p1", Name: "Seer Fish", PricePerKg: 500, StockKg: 10, IsAvailable: true,
	}))
	carts := repositories.NewMockCartRepository(products)
	profiles := repositories.NewMockProfileRepository()
	assert.NoError(t, profiles.Create(&models.Profile{ID: "u1", ReferralCode: "FSAAAAAA"}))

	service := services.NewCheckoutService(
		carts, products, profiles,
		&failingOrderRepo{MockOrderRepository: repositories.NewMockOrderRepository()},
		repositories.NewMockZoneRepository(),
		services.NewStockService(products),
		services.NewCouponService(repositories.NewMockCouponRepository()),
		nil,
		services.CheckoutConfig{DefaultDeliveryCharge: 40, ReferralReward: 50},
	)

	assert.NoError(t, carts.Create(&models.CartItem{UserID: "u1", ProductID: "p1", QuantityKg: 1}))

	_, err := service.PlaceOrder("u1", services.CheckoutInput{
		Address: validAddress(), PaymentMethod: models.PaymentCOD,
	})
	assert.ErrorIs(t, err, services.ErrPersistence)

	// The deduction is not compensated, and the cart is preserved.
	product, err := products.GetByID("p1")
	assert.NoError(t, err)
	assert.InDelta(t, 9, product.StockKg, 1e-9)
	items, err := carts.GetByUser("u1")
	assert.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCheckoutService_PlaceOrder_ReferralRewardOnlyOnce(t *testing.T) {
	f := newCheckoutFixture(t)
	assert.NoError(t, f.profiles.Create(&models.Profile{ID: "referrer", ReferralCode: "FSREFER1"}))
	assert.NoError(t, f.profiles.Create(&models.Profile{
		ID: "newbie", ReferralCode: "FSNEWBIE", ReferredBy: "referrer",
	}))

	for i := 0; i < 2; i++ {
		assert.NoError(t, f.carts.Create(&models.CartItem{UserID: "newbie", ProductID: "p1", QuantityKg: 1}))
		_, err := f.service.PlaceOrder("newbie", services.CheckoutInput{
			Address: validAddress(), PaymentMethod: models.PaymentCOD,
		})
		assert.NoError(t, err)
	}

	referrer, err := f.profiles.GetByID("referrer")
	assert.NoError(t, err)
	assert.InDelta(t, 50, referrer.WalletBalance, 1e-9)
	assert.Equal(t, 1, referrer.ReferralCount)

	newbie, err := f.profiles.GetByID("newbie")
	assert.NoError(t, err)
	assert.True(t, newbie.FirstOrderCompleted)
}

func TestCheckoutService_PlaceOrder_FrozenLinesIgnoreLaterPriceChange(t *testing.T) {
	f := newCheckoutFixture(t)
	assert.NoError(t, f.carts.Create(&models.CartItem{UserID: "u1", ProductID: "p1", QuantityKg: 1}))

	order, err := f.service.PlaceOrder("u1", services.CheckoutInput{
		Address: validAddress(), PaymentMethod: models.PaymentCOD,
	})
	assert.NoError(t, err)

	product, err := f.products.GetByID("p1")
	assert.NoError(t, err)
	product.PricePerKg = 750
	assert.NoError(t, f.products.Update(product))

	stored, err := f.orders.GetByID(order.ID)
	assert.NoError(t, err)
	if assert.Len(t, stored.Items, 1) {
		assert.InDelta(t, 500, stored.Items[0].PricePerKg, 1e-9)
		assert.InDelta(t, 500, stored.Items[0].Total, 1e-9)
	}
}

func TestCheckoutService_PlaceOrder_ZoneDeliveryCharge(t *testing.T) {
	f := newCheckoutFixture(t)
	assert.NoError(t, f.zones.Create(&models.DeliveryZone{
		PinCode: "682001", City: "Kochi", DeliveryCharge: 25, IsActive: true,
	}))
	assert.NoError(t, f.carts.Create(&models.CartItem{UserID: "u1", ProductID: "p1", QuantityKg: 1}))

	order, err := f.service.PlaceOrder("u1", services.CheckoutInput{
		Address: validAddress(), PaymentMethod: models.PaymentCOD,
	})
	assert.NoError(t, err)
	assert.InDelta(t, 25, order.DeliveryCharge, 1e-9)
	assert.InDelta(t, 525, order.Total, 1e-9)
}

func TestCheckoutService_PlaceOrder_EmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.service.PlaceOrder("u1", services.CheckoutInput{
		Address: validAddress(), PaymentMethod: models.PaymentCOD,
	})
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.Contains(t, err.Error(), "cart is empty")
}

func TestCheckoutService_PlaceOrder_AddressValidation(t *testing.T) {
	f := newCheckoutFixture(t)
	assert.NoError(t, f.carts.Create(&models.CartItem{UserID: "u1", ProductID: "p1", QuantityKg: 1}))

	address := validAddress()
	address.Phone = ""
	_, err := f.service.PlaceOrder("u1", services.CheckoutInput{
		Address: address, PaymentMethod: models.PaymentCOD,
	})
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.Contains(t, err.Error(), "please enter a valid phone number")

	// Validation fails before anything is touched.
	product, err := f.products.GetByID("p1")
	assert.NoError(t, err)
	assert.InDelta(t, 10, product.StockKg, 1e-9)
}

func TestCheckoutService_PlaceOrder_UnsupportedPaymentMethod(t *testing.T) {
	f := newCheckoutFixture(t)
	assert.NoError(t, f.carts.Create(&models.CartItem{UserID: "u1", ProductID: "p1", QuantityKg: 1}))

	_, err := f.service.PlaceOrder("u1", services.CheckoutInput{
		Address: validAddress(), PaymentMethod: models.PaymentMethod("cheque"),
	})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestCheckoutService_PlaceOrder_RequiresSignIn(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.service.PlaceOrder("", services.CheckoutInput{
		Address: validAddress(), PaymentMethod: models.PaymentCOD,
	})
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
}
