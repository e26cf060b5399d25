package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CHECKOUT DOMAIN ERRORS
// =============================================================================

var (
	ErrSnapshotNotFound = &Error{Code: ENOTFOUND, Message: "No checkout in progress"}
	ErrUnknownCoupon    = &Error{Code: EINVALID, Message: "Unknown coupon code"}
)

// CheckoutService builds and hands off the immutable checkout snapshot.
type CheckoutService interface {
	// ApplyCoupon validates a coupon code against the current cart and
	// stores the resulting discount. A new coupon replaces the previous
	// one; an unknown code leaves the previous discount untouched.
	ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*CartSummary, error)

	// RemoveCoupon drops any applied coupon.
	RemoveCoupon(ctx context.Context, userID uuid.UUID) (*CartSummary, error)

	// Begin validates the cart and delivery choices and stores a
	// single-use snapshot for the review screen.
	Begin(ctx context.Context, userID uuid.UUID, params BeginCheckoutParams) (*CheckoutSnapshot, error)

	// Peek returns the pending snapshot without consuming it.
	Peek(ctx context.Context, userID uuid.UUID) (*CheckoutSnapshot, error)

	// Abandon invalidates the pending snapshot, returning the customer
	// to the editable cart.
	Abandon(ctx context.Context, userID uuid.UUID) error
}

// DeliveryType selects immediate or scheduled delivery.
type DeliveryType string

const (
	DeliveryRegular   DeliveryType = "regular"
	DeliveryScheduled DeliveryType = "scheduled"
)

// Valid reports whether the delivery type is one of the known values.
func (d DeliveryType) Valid() bool {
	return d == DeliveryRegular || d == DeliveryScheduled
}

// DeliveryPeriod is the window of a scheduled delivery day.
type DeliveryPeriod string

const (
	PeriodMorning   DeliveryPeriod = "morning"
	PeriodAfternoon DeliveryPeriod = "afternoon"
	PeriodNight     DeliveryPeriod = "night"
)

// Valid reports whether the period is one of the known values.
func (p DeliveryPeriod) Valid() bool {
	switch p {
	case PeriodMorning, PeriodAfternoon, PeriodNight:
		return true
	}
	return false
}

// PaymentMethod is the label recorded on the order. No charge is captured;
// settlement happens at the door.
type PaymentMethod string

const (
	PaymentPix        PaymentMethod = "pix"
	PaymentCash       PaymentMethod = "cash"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
)

// Valid reports whether the payment method is one of the known values.
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentPix, PaymentCash, PaymentCreditCard, PaymentDebitCard:
		return true
	}
	return false
}

// DefaultPaymentMethod is used when the customer makes no explicit choice.
const DefaultPaymentMethod = PaymentCash

// ScheduledDateLayout is the wire format for scheduled delivery dates.
const ScheduledDateLayout = "2006-01-02"

// BeginCheckoutParams carries the customer's checkout choices from the cart.
type BeginCheckoutParams struct {
	AddressID       uuid.UUID
	DeliveryType    DeliveryType
	ScheduledDate   string
	ScheduledPeriod DeliveryPeriod
	PaymentMethod   PaymentMethod
}

// CheckoutSnapshot is the immutable record of checkout choices handed from
// the cart to order submission. It is stored single-use: consumed by
// submission or invalidated when the customer goes back to edit the cart.
type CheckoutSnapshot struct {
	UserID          uuid.UUID      `json:"user_id"`
	AddressID       uuid.UUID      `json:"address_id"`
	DeliveryType    DeliveryType   `json:"delivery_type"`
	ScheduledDate   string         `json:"scheduled_date,omitempty"`
	ScheduledPeriod DeliveryPeriod `json:"scheduled_period,omitempty"`
	PaymentMethod   PaymentMethod  `json:"payment_method"`
	DiscountCents   int64          `json:"discount_cents"`
	SubtotalCents   int64          `json:"subtotal_cents"`
	CreatedAt       time.Time      `json:"created_at"`
}

// Validate checks the snapshot field invariants. A scheduled delivery
// requires a date today or later plus a period; a regular delivery must
// carry neither. now anchors the date check.
func (s *CheckoutSnapshot) Validate(now time.Time) error {
	var err error
	if s.AddressID == uuid.Nil {
		err = AddFieldError(err, "address_id", "delivery address is required")
	}
	if !s.DeliveryType.Valid() {
		err = AddFieldError(err, "delivery_type", "must be regular or scheduled")
	}
	if !s.PaymentMethod.Valid() {
		err = AddFieldError(err, "payment_method", "must be pix, cash, credit_card or debit_card")
	}
	switch s.DeliveryType {
	case DeliveryScheduled:
		if s.ScheduledDate == "" {
			err = AddFieldError(err, "scheduled_date", "required for scheduled delivery")
		} else if day, perr := time.Parse(ScheduledDateLayout, s.ScheduledDate); perr != nil {
			err = AddFieldError(err, "scheduled_date", "must be YYYY-MM-DD")
		} else if dateBefore(day, now) {
			err = AddFieldError(err, "scheduled_date", "must be today or later")
		}
		if !s.ScheduledPeriod.Valid() {
			err = AddFieldError(err, "scheduled_period", "required for scheduled delivery")
		}
	case DeliveryRegular:
		if s.ScheduledDate != "" || s.ScheduledPeriod != "" {
			err = AddFieldError(err, "scheduled_date", "not allowed for regular delivery")
		}
	}
	if err != nil {
		return err
	}
	return nil
}

// dateBefore compares calendar dates only. day comes from time.Parse in UTC;
// now carries the deployment's location, so truncating either to a fixed zone
// would shift "today" near midnight.
func dateBefore(day, now time.Time) bool {
	d1 := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	d2 := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return d1.Before(d2)
}

// =============================================================================
// COUPONS
// =============================================================================

// couponValues maps normalized coupon codes to their flat discount in cents.
// The discount never exceeds the cart subtotal.
var couponValues = map[string]int64{
	"PORTO10": 1000,
}

// NormalizeCouponCode trims surrounding whitespace and uppercases the code,
// so entry is case-insensitive.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CouponDiscount returns the discount in cents a coupon grants against the
// given subtotal, clamped so the discount never exceeds the subtotal.
// Unknown codes return ErrUnknownCoupon.
func CouponDiscount(code string, subtotalCents int64) (int64, error) {
	value, ok := couponValues[NormalizeCouponCode(code)]
	if !ok {
		return 0, ErrUnknownCoupon
	}
	return min(value, subtotalCents), nil
}

// ClampDiscount bounds a discount to [0, subtotal].
func ClampDiscount(discountCents, subtotalCents int64) int64 {
	if discountCents < 0 {
		return 0
	}
	if discountCents > subtotalCents {
		return subtotalCents
	}
	return discountCents
}
