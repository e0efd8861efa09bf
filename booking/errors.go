package booking

import "errors"

// ErrCode identifies a booking rejection so the HTTP layer can map it
// to a status code without string matching
type ErrCode string

const (
	ErrWaiverRequired        ErrCode = "WAIVER_REQUIRED"
	ErrInvalidDateRange      ErrCode = "INVALID_DATE_RANGE"
	ErrInvalidDeliveryOption ErrCode = "INVALID_DELIVERY_OPTION"
	ErrProductNotFound       ErrCode = "PRODUCT_NOT_FOUND"
	ErrProductUnavailable    ErrCode = "PRODUCT_UNAVAILABLE"
	ErrBookingNotFound       ErrCode = "BOOKING_NOT_FOUND"
	ErrNotOwner              ErrCode = "NOT_OWNER"
	ErrForbiddenField        ErrCode = "FORBIDDEN_FIELD"
	ErrInvalidTransition     ErrCode = "INVALID_TRANSITION"
	ErrAlreadyPaid           ErrCode = "ALREADY_PAID"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string { return e.msg }
func (e codedError) Code() ErrCode { return e.code }

func makeErr(code ErrCode, msg string) error {
	return codedError{code: code, msg: msg}
}

// Code extracts the error code, or "" for uncoded errors
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}
