package controllers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"peakgear/booking"
	"peakgear/middleware"
	"peakgear/models"
	"peakgear/store"
	"peakgear/utils"
)

// BookingController handles booking creation, listing, updates and the
// simulated payment checkout
type BookingController struct {
	Store    store.Storage
	Service  *booking.Service
	Email    *utils.EmailService
	Validate *validator.Validate
}

// NewBookingController creates a new BookingController
func NewBookingController(st store.Storage, svc *booking.Service, email *utils.EmailService, validate *validator.Validate) *BookingController {
	return &BookingController{Store: st, Service: svc, Email: email, Validate: validate}
}

type createBookingRequest struct {
	ProductID      string `json:"productId" validate:"required"`
	StartDate      string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate        string `json:"endDate" validate:"required,datetime=2006-01-02"`
	DeliveryOption string `json:"deliveryOption" validate:"required,oneof=pickup standard_delivery extended_delivery"`
	Notes          string `json:"notes"`
}

type updateBookingRequest struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"paymentStatus"`
	Notes         *string `json:"notes"`
}

// Create books a product for the authenticated user
func (bc *BookingController) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := bc.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid booking data")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	created, err := bc.Service.Create(ctx, user.ID, booking.CreateInput{
		ProductID:      req.ProductID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		DeliveryOption: models.DeliveryOption(req.DeliveryOption),
		Notes:          req.Notes,
	})
	if err != nil {
		if booking.Code(err) != "" {
			writeBookingError(w, err)
			return
		}
		slog.Error("booking creation failed", "user", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create booking")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ListOwn returns the authenticated user's bookings, newest first
func (bc *BookingController) ListOwn(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	bookings, err := bc.Store.ListBookingsByUser(ctx, user.ID)
	if err != nil {
		slog.Error("failed to list bookings", "user", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

// AdminList returns every booking (admin only)
func (bc *BookingController) AdminList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	bookings, err := bc.Store.ListAllBookings(ctx)
	if err != nil {
		slog.Error("failed to list all bookings", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

// Update applies a partial booking update. Admins may change status and
// payment status; the booking owner may only change notes.
func (bc *BookingController) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id := mux.Vars(r)["id"]

	var req updateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	in := booking.UpdateInput{Notes: req.Notes}
	if req.Status != nil {
		s := models.BookingStatus(*req.Status)
		in.Status = &s
	}
	if req.PaymentStatus != nil {
		p := models.PaymentStatus(*req.PaymentStatus)
		in.PaymentStatus = &p
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	updated, err := bc.Service.Update(ctx, user, id, in)
	if err != nil {
		if booking.Code(err) != "" {
			writeBookingError(w, err)
			return
		}
		slog.Error("booking update failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update booking")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Checkout runs the simulated payment for a pending booking and sends
// the confirmation email in the background
func (bc *BookingController) Checkout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		BookingID string `json:"bookingId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BookingID == "" {
		writeError(w, http.StatusBadRequest, "bookingId is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := bc.Service.Checkout(ctx, user.ID, req.BookingID)
	if err != nil {
		if booking.Code(err) != "" {
			writeBookingError(w, err)
			return
		}
		slog.Error("checkout failed", "booking", req.BookingID, "error", err)
		writeError(w, http.StatusInternalServerError, "Payment could not be processed")
		return
	}

	go func(email, firstName string, b models.Booking) {
		productName := b.ProductID
		bgCtx, bgCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer bgCancel()
		if product, err := bc.Store.GetProduct(bgCtx, b.ProductID); err == nil {
			productName = product.Name
		}
		if err := bc.Email.SendBookingConfirmationEmail(email, firstName, productName, b); err != nil {
			slog.Error("failed to send booking confirmation", "to", email, "error", err)
		}
	}(user.Email, user.FirstName, *result.Booking)

	writeJSON(w, http.StatusOK, result)
}
