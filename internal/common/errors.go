package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("email already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("wrong email or password")
	ErrorValidation   = errors.New("validation error")

	// Signup gate errors.
	ErrorInvalidEmail        = errors.New("the email is not valid")
	ErrorUpstreamUnavailable = errors.New("email validation service unavailable")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
