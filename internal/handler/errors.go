package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nyaysetu/nyaysetu/internal/service"
)

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err))
	case errors.Is(err, service.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication failed")
	case errors.Is(err, service.ErrNotVerified):
		writeError(w, http.StatusForbidden, "EMAIL_NOT_VERIFIED", "Email address has not been verified")
	case errors.Is(err, service.ErrAlreadyRegistered):
		writeError(w, http.StatusConflict, "EMAIL_REGISTERED", "Email address is already registered")
	case errors.Is(err, service.ErrAlreadyVerified):
		writeError(w, http.StatusConflict, "ALREADY_VERIFIED", "Email address is already verified")
	case errors.Is(err, service.ErrUnknownUser):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "No account for this verification link")
	case errors.Is(err, service.ErrVerificationExpired):
		writeError(w, http.StatusGone, "VERIFICATION_EXPIRED", service.ErrVerificationExpired.Error())
	case errors.Is(err, service.ErrDependencyUnavailable):
		logger.ErrorContext(r.Context(), "dependency_unavailable", "error", err)
		w.Header().Set("Retry-After", "5")
		writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Service temporarily unavailable, please retry")
	default:
		logger.ErrorContext(r.Context(), "internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// validationMessage drops the sentinel prefix from a wrapped validation error.
func validationMessage(err error) string {
	msg := err.Error()
	prefix := service.ErrValidation.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}
