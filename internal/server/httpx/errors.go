package httpx

import (
	"errors"
	"net/http"

	"github.com/ZinoChan/LangRhythms/internal/common"
	"github.com/ZinoChan/LangRhythms/internal/logging"
)

// statusFor maps service errors to an HTTP status and client-facing message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errInvalidBody):
		return http.StatusBadRequest, "Invalid JSON body"
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "Wrong email or password"
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, "Authentication required"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict, "Email already exists"
	case errors.Is(err, common.ErrorInvalidEmail):
		return http.StatusConflict, "The email is not valid"
	case errors.Is(err, common.ErrorUpstreamUnavailable):
		return http.StatusServiceUnavailable, "Email validation service unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		logger.Error(r.Context(), "request failed",
			"error", err,
			"path", r.URL.Path,
			"request_id", RequestIDFromContext(r.Context()))
	} else {
		logger.Debug(r.Context(), "request rejected",
			"status", code,
			"error", err,
			"path", r.URL.Path,
			"request_id", RequestIDFromContext(r.Context()))
	}
	WriteError(w, code, msg)
}
