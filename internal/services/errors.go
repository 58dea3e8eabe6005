package services

import "errors"

// Error classes of the checkout engine. Every abort path wraps one of these
// with a specific, actionable message; handlers map them to HTTP statuses.
var (
	// ErrUnauthenticated means the operation requires a signed-in shopper.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrValidation covers bad input caught before any attempt starts: a
	// missing address field, a malformed quantity, an empty cart. Fully
	// recoverable by user correction.
	ErrValidation = errors.New("validation")

	// ErrStockConflict means a product's live stock no longer covers the
	// requested quantity, detected at verification or deduction time. The
	// message names the product and its actual available stock.
	ErrStockConflict = errors.New("stock conflict")

	// ErrCouponRejected means the coupon authority declined the code.
	// Non-fatal: checkout may proceed without the coupon.
	ErrCouponRejected = errors.New("coupon rejected")

	// ErrUnavailable marks a remote-call failure that is safe to retry.
	ErrUnavailable = errors.New("service unavailable")

	// ErrPersistence marks an order or line write failure after stock was
	// already deducted. The most dangerous class: stock is committed but no
	// order accounts for it, and recovery is operator-level.
	ErrPersistence = errors.New("persistence")

	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("not found")
)
