package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"peakgear/models"
	"peakgear/store"
	"peakgear/utils"
)

// Store is the slice of persistence the booking subsystem needs
type Store interface {
	HasSignedWaiver(ctx context.Context, userID string) (bool, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	FindBookingsInRange(ctx context.Context, productID, startDate, endDate string) ([]models.Booking, error)
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	UpdateBooking(ctx context.Context, booking *models.Booking) error
}

// Config carries the delivery-fee policy. Now is overridable in tests;
// nil means time.Now.
type Config struct {
	StandardDeliveryFee string
	ExtendedDeliveryFee string
	Now                 func() time.Time
}

// Service implements availability checking and the booking lifecycle
type Service struct {
	store Store
	fees  map[models.DeliveryOption]string
	now   func() time.Time
	locks *productLocks
}

// NewService builds a booking Service over the given store
func NewService(st Store, cfg Config) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	standard := cfg.StandardDeliveryFee
	if standard == "" {
		standard = "49.99"
	}
	extended := cfg.ExtendedDeliveryFee
	if extended == "" {
		extended = "89.99"
	}
	return &Service{
		store: st,
		fees: map[models.DeliveryOption]string{
			models.DeliveryPickup:   "0.00",
			models.DeliveryStandard: standard,
			models.DeliveryExtended: extended,
		},
		now:   now,
		locks: newProductLocks(),
	}
}

// CreateInput is a validated booking request
type CreateInput struct {
	ProductID      string
	StartDate      string
	EndDate        string
	DeliveryOption models.DeliveryOption
	Notes          string
}

// Quote breaks down the cost of a prospective rental. TotalCost is what
// gets persisted on the booking (rental + delivery); PayableAtCheckout
// additionally includes the refundable security deposit and is only ever
// shown at payment time.
type Quote struct {
	DurationDays      int64  `json:"durationDays"`
	RentalCost        string `json:"rentalCost"`
	DeliveryFee       string `json:"deliveryFee"`
	TotalCost         string `json:"totalCost"`
	PayableAtCheckout string `json:"payableAtCheckout"`
}

// FindConflicts returns every non-cancelled booking for the product whose
// inclusive date range intersects [startDate, endDate]
func (s *Service) FindConflicts(ctx context.Context, productID, startDate, endDate string) ([]models.Booking, error) {
	if _, _, err := s.validRange(startDate, endDate); err != nil {
		return nil, err
	}
	return s.store.FindBookingsInRange(ctx, productID, startDate, endDate)
}

// CheckAvailability reports whether the product is free for the range
func (s *Service) CheckAvailability(ctx context.Context, productID, startDate, endDate string) (bool, error) {
	conflicts, err := s.FindConflicts(ctx, productID, startDate, endDate)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

// Create runs the booking preconditions in order (waiver, dates,
// availability), computes the cost server-side and inserts the booking in
// pending/pending state. The per-product lock spans the conflict check
// and the insert.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*models.Booking, error) {
	signed, err := s.store.HasSignedWaiver(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !signed {
		return nil, makeErr(ErrWaiverRequired, "a signed liability waiver is required before booking")
	}

	start, _, err := s.validRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	if start.Format(dateLayout) < s.today() {
		return nil, makeErr(ErrInvalidDateRange, "start date must not be in the past")
	}

	product, err := s.store.GetProduct(ctx, in.ProductID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, makeErr(ErrProductNotFound, "product not found")
		}
		return nil, err
	}
	if !product.Available {
		return nil, makeErr(ErrProductNotFound, "product is no longer offered")
	}

	quote, err := s.QuoteFor(product, in.StartDate, in.EndDate, in.DeliveryOption)
	if err != nil {
		return nil, err
	}

	lock := s.locks.get(in.ProductID)
	lock.Lock()
	defer lock.Unlock()

	conflicts, err := s.store.FindBookingsInRange(ctx, in.ProductID, in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, makeErr(ErrProductUnavailable, "product not available for selected dates")
	}

	booking := &models.Booking{
		ID:             uuid.NewString(),
		UserID:         userID,
		ProductID:      in.ProductID,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		TotalCost:      quote.TotalCost,
		DeliveryOption: in.DeliveryOption,
		DeliveryFee:    quote.DeliveryFee,
		Status:         models.StatusPending,
		PaymentStatus:  models.PaymentPending,
		Notes:          in.Notes,
	}
	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// QuoteFor computes the cost breakdown for a product and range
func (s *Service) QuoteFor(product *models.Product, startDate, endDate string, option models.DeliveryOption) (*Quote, error) {
	start, end, err := s.validRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	feeStr, ok := s.fees[option]
	if !ok {
		return nil, makeErr(ErrInvalidDeliveryOption, fmt.Sprintf("unknown delivery option %q", option))
	}

	rateCents, err := utils.ParseAmount(product.DailyRate)
	if err != nil {
		return nil, fmt.Errorf("product %s has invalid daily rate: %w", product.ID, err)
	}
	feeCents, err := utils.ParseAmount(feeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid delivery fee %q: %w", feeStr, err)
	}
	depositCents, err := utils.ParseAmount(product.SecurityDeposit)
	if err != nil {
		return nil, fmt.Errorf("product %s has invalid security deposit: %w", product.ID, err)
	}

	days := daysInclusive(start, end)
	rentalCents := days * rateCents
	totalCents := rentalCents + feeCents

	return &Quote{
		DurationDays:      days,
		RentalCost:        utils.FormatAmount(rentalCents),
		DeliveryFee:       utils.FormatAmount(feeCents),
		TotalCost:         utils.FormatAmount(totalCents),
		PayableAtCheckout: utils.FormatAmount(totalCents + depositCents),
	}, nil
}

// UpdateInput carries a partial booking update; nil fields are untouched
type UpdateInput struct {
	Status        *models.BookingStatus
	PaymentStatus *models.PaymentStatus
	Notes         *string
}

// Update applies a partial update under the authorization rules: admins
// may change status (transition-validated), payment status and notes; the
// booking owner may only change notes.
func (s *Service) Update(ctx context.Context, actor *models.User, bookingID string, in UpdateInput) (*models.Booking, error) {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, makeErr(ErrBookingNotFound, "booking not found")
		}
		return nil, err
	}

	switch {
	case actor.IsAdmin:
		if in.Status != nil {
			if !models.ValidBookingStatus(*in.Status) {
				return nil, makeErr(ErrInvalidTransition, fmt.Sprintf("unknown status %q", *in.Status))
			}
			if !models.CanTransition(booking.Status, *in.Status) {
				return nil, makeErr(ErrInvalidTransition,
					fmt.Sprintf("cannot transition booking from %s to %s", booking.Status, *in.Status))
			}
			booking.Status = *in.Status
		}
		if in.PaymentStatus != nil {
			if !models.ValidPaymentStatus(*in.PaymentStatus) {
				return nil, makeErr(ErrInvalidTransition, fmt.Sprintf("unknown payment status %q", *in.PaymentStatus))
			}
			booking.PaymentStatus = *in.PaymentStatus
		}
		if in.Notes != nil {
			booking.Notes = *in.Notes
		}
	case actor.ID == booking.UserID:
		if in.Status != nil || in.PaymentStatus != nil {
			return nil, makeErr(ErrForbiddenField, "only an administrator can change booking status")
		}
		if in.Notes != nil {
			booking.Notes = *in.Notes
		}
	default:
		return nil, makeErr(ErrNotOwner, "not your booking")
	}

	if err := s.store.UpdateBooking(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// CheckoutResult reports the simulated payment. RentalAndDeliveryCost is
// the persisted booking total; PayableAtCheckout adds the refundable
// security deposit, which is tracked separately and never folded into
// the booking's TotalCost.
type CheckoutResult struct {
	Booking               *models.Booking `json:"booking"`
	RentalAndDeliveryCost string          `json:"rentalAndDeliveryCost"`
	SecurityDeposit       string          `json:"securityDeposit"`
	PayableAtCheckout     string          `json:"payableAtCheckout"`
}

// Checkout simulates a successful payment for a pending booking owned by
// the caller, confirming it and marking it paid in one operation
func (s *Service) Checkout(ctx context.Context, userID, bookingID string) (*CheckoutResult, error) {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, makeErr(ErrBookingNotFound, "booking not found")
		}
		return nil, err
	}
	if booking.UserID != userID {
		return nil, makeErr(ErrNotOwner, "not your booking")
	}
	if booking.PaymentStatus != models.PaymentPending {
		return nil, makeErr(ErrAlreadyPaid, "booking has already been paid")
	}
	if booking.Status != models.StatusPending {
		return nil, makeErr(ErrInvalidTransition,
			fmt.Sprintf("cannot pay for a booking in %s state", booking.Status))
	}

	product, err := s.store.GetProduct(ctx, booking.ProductID)
	if err != nil {
		return nil, err
	}

	totalCents, err := utils.ParseAmount(booking.TotalCost)
	if err != nil {
		return nil, fmt.Errorf("booking %s has invalid total cost: %w", booking.ID, err)
	}
	depositCents, err := utils.ParseAmount(product.SecurityDeposit)
	if err != nil {
		return nil, fmt.Errorf("product %s has invalid security deposit: %w", product.ID, err)
	}

	booking.Status = models.StatusConfirmed
	booking.PaymentStatus = models.PaymentPaid
	if err := s.store.UpdateBooking(ctx, booking); err != nil {
		return nil, err
	}

	return &CheckoutResult{
		Booking:               booking,
		RentalAndDeliveryCost: booking.TotalCost,
		SecurityDeposit:       product.SecurityDeposit,
		PayableAtCheckout:     utils.FormatAmount(totalCents + depositCents),
	}, nil
}

// validRange parses both dates and checks ordering
func (s *Service) validRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := parseDate(startDate)
	if err != nil {
		return time.Time{}, time.Time{}, makeErr(ErrInvalidDateRange, "startDate must be a valid YYYY-MM-DD date")
	}
	end, err := parseDate(endDate)
	if err != nil {
		return time.Time{}, time.Time{}, makeErr(ErrInvalidDateRange, "endDate must be a valid YYYY-MM-DD date")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, makeErr(ErrInvalidDateRange, "endDate must not be before startDate")
	}
	return start, end, nil
}

func (s *Service) today() string {
	return s.now().UTC().Format(dateLayout)
}
