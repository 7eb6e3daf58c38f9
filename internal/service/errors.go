package service

import "errors"

// Error kinds. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUpstream        = errors.New("upstream failure")
)

// Error is a failure with a message that is safe to show to API clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	ErrMissingParameters  = newError(ErrInvalidArgument, "Missing parameters")
	ErrInvalidAsset       = newError(ErrInvalidArgument, "You must send a single image file !")
	ErrMissingOfferFields = newError(ErrInvalidArgument, "title, price and picture are required")
	ErrInvalidPrice       = newError(ErrInvalidArgument, "price must be a number between 0 and 9999999999.99")
	ErrInvalidOfferID     = newError(ErrInvalidArgument, "invalid offer id")
	ErrInvalidQuery       = newError(ErrInvalidArgument, "priceMin and priceMax must be numbers")
	ErrEmailTaken         = newError(ErrConflict, "This email already has an account")
	ErrUnauthorized       = newError(ErrUnauthenticated, "Unauthorized")
	ErrUserNotFound       = newError(ErrNotFound, "User not found")
	ErrOfferNotFound      = newError(ErrNotFound, "Offer not found")
	ErrNotOwner           = newError(ErrForbidden, "You are not the owner of this offer")
)
