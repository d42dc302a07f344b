package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nyaysetu/nyaysetu/internal/handler/dto"
	"github.com/nyaysetu/nyaysetu/internal/mailer"
	"github.com/nyaysetu/nyaysetu/internal/middleware"
	"github.com/nyaysetu/nyaysetu/internal/model"
	"github.com/nyaysetu/nyaysetu/internal/service"
)

// AuthService is the account lifecycle. *service.AuthService implements it.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*service.RegisterResult, error)
	Confirm(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*service.Session, error)
	Logout(ctx context.Context, token string) (service.LogoutAck, error)
	CurrentUser(ctx context.Context, token string) (*model.User, error)
}

// AuthHandler handles HTTP requests for the account lifecycle.
type AuthHandler struct {
	svc    AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(h.logger, w, r, err)
		return
	}

	resp := dto.RegisterResponse{
		Status:   string(result.User.Status),
		Email:    result.User.Email,
		MailSent: result.MailDelivered,
		Message:  "Check your inbox for a verification link.",
	}
	if !result.MailDelivered {
		if errors.Is(result.MailError, mailer.ErrManualDelivery) {
			resp.Message = "Account created. Verification email is not configured; an administrator will send your link."
		} else {
			resp.Message = "Account created, but the verification email could not be sent. Please contact support."
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Verify handles GET /api/v1/auth/verify?token=...
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "MISSING_TOKEN", "Verification token is required")
		return
	}
	if err := middleware.ValidateToken(token); err != nil {
		writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid verification token")
		return
	}

	if err := h.svc.Confirm(r.Context(), token); err != nil {
		handleServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: string(model.UserStatusVerified)})
}

// ResendVerification handles POST /api/v1/auth/verify/resend. The reply is
// the same whether or not the address belongs to a pending account.
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req dto.ResendVerificationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if err := h.svc.ResendVerification(r.Context(), req.Email); err != nil {
		handleServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, dto.ResendVerificationResponse{
		Status:  "accepted",
		Message: "If that address has an unverified account, a new verification link is on its way.",
	})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	session, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		handleServiceError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token:     session.Token,
		TokenType: session.TokenType,
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout handles POST /api/v1/auth/logout. Runs behind SessionAuth.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ack, err := h.svc.Logout(r.Context(), middleware.BearerToken(r))
	if err != nil {
		handleServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.LogoutResponse{Status: "logged_out", Revoked: ack.Revoked})
}

// Me handles GET /api/v1/auth/me. Runs behind SessionAuth.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.CurrentUser(r.Context(), middleware.BearerToken(r))
	if err != nil {
		handleServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}
