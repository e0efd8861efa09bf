package models

import "time"

// BookingStatus is the booking lifecycle state
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusActive    BookingStatus = "active"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus tracks payment separately from the booking lifecycle
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// DeliveryOption selects how the equipment reaches the customer
type DeliveryOption string

const (
	DeliveryPickup   DeliveryOption = "pickup"
	DeliveryStandard DeliveryOption = "standard_delivery"
	DeliveryExtended DeliveryOption = "extended_delivery"
)

// Booking reserves one product for one user over an inclusive date range.
// Dates are calendar-date strings (YYYY-MM-DD), money decimal strings.
// TotalCost is rental + delivery only; the security deposit is charged at
// checkout but never folded into TotalCost.
type Booking struct {
	ID             string         `bson:"_id" json:"id"`
	UserID         string         `bson:"user_id" json:"userId"`
	ProductID      string         `bson:"product_id" json:"productId"`
	StartDate      string         `bson:"start_date" json:"startDate"`
	EndDate        string         `bson:"end_date" json:"endDate"`
	TotalCost      string         `bson:"total_cost" json:"totalCost"`
	DeliveryOption DeliveryOption `bson:"delivery_option" json:"deliveryOption"`
	DeliveryFee    string         `bson:"delivery_fee" json:"deliveryFee"`
	Status         BookingStatus  `bson:"status" json:"status"`
	PaymentStatus  PaymentStatus  `bson:"payment_status" json:"paymentStatus"`
	Notes          string         `bson:"notes" json:"notes"`
	CreatedAt      time.Time      `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `bson:"updated_at" json:"updatedAt"`
}

// bookingTransitions is the authoritative lifecycle definition.
// completed and cancelled are terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusActive, StatusCancelled},
	StatusActive:    {StatusCompleted},
}

// CanTransition reports whether a booking may move from one status to another
func CanTransition(from, to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidTransitionsFrom returns the allowed next statuses for a given status
func ValidTransitionsFrom(status BookingStatus) []BookingStatus {
	return bookingTransitions[status]
}

// ValidBookingStatus reports whether s is a known booking status
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a known payment status
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// ValidDeliveryOption reports whether o is a known delivery option
func ValidDeliveryOption(o DeliveryOption) bool {
	switch o {
	case DeliveryPickup, DeliveryStandard, DeliveryExtended:
		return true
	}
	return false
}
