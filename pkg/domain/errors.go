package domain

import (
	"errors"
	"strconv"
)

var (
	ErrMissingToken      = errors.New("missing access token")
	ErrNameRequired      = errors.New("name is required")
	ErrEmailRequired     = errors.New("e-mail address is required")
	ErrPhoneRequired     = errors.New("cell phone number is required")
	ErrPlus1NotAllowed   = errors.New("plus one is not allowed")
	ErrInvalidAttendance = errors.New("invalid attendance")
)

// StatusCoder is implemented by errors that carry an HTTP status.
type StatusCoder interface {
	HTTPStatus() int
}

// StatusOf extracts the HTTP status carried by err, if any.
func StatusOf(err error) (int, bool) {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatus(), true
	}
	return 0, false
}

// StatusTitle is the heading of the terminal page shown for a failed load.
func StatusTitle(code int) string {
	switch code {
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 410:
		return "Gone"
	default:
		return strconv.Itoa(code)
	}
}
