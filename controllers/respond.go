package controllers

import (
	"encoding/json"
	"net/http"

	"peakgear/booking"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeBookingError maps booking error codes onto HTTP statuses.
// Uncoded errors surface as opaque 500s.
func writeBookingError(w http.ResponseWriter, err error) {
	switch booking.Code(err) {
	case booking.ErrWaiverRequired, booking.ErrNotOwner, booking.ErrForbiddenField:
		writeError(w, http.StatusForbidden, err.Error())
	case booking.ErrInvalidDateRange, booking.ErrInvalidDeliveryOption, booking.ErrInvalidTransition, booking.ErrAlreadyPaid:
		writeError(w, http.StatusBadRequest, err.Error())
	case booking.ErrProductNotFound, booking.ErrBookingNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	case booking.ErrProductUnavailable:
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
