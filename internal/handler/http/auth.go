package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/menstyle/storefront/internal/auth"
	apperrors "github.com/menstyle/storefront/pkg/errors"
	"github.com/menstyle/storefront/pkg/httputil"
	"github.com/menstyle/storefront/pkg/validator"
)

// AuthHandler proxies sign-in and sign-out to the hosted auth provider. The
// storefront keeps no credentials; it only forwards them and relays the token
// pair.
type AuthHandler struct {
	client *auth.Client
	admins *auth.AdminChecker
	logger *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(client *auth.Client, admins *auth.AdminChecker, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		client: client,
		admins: admins,
		logger: logger,
	}
}

// LoginRequest is the JSON request body for signing in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	session, err := h.client.SignIn(r.Context(), auth.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: session})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("missing bearer token"), h.logger)
		return
	}

	if err := h.client.SignOut(r.Context(), token); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "signed out"}})
}

// Me handles GET /api/v1/auth/me. Besides the provider's view of the account
// it reports whether the user may enter the admin area.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("missing bearer token"), h.logger)
		return
	}

	user, err := h.client.GetUser(r.Context(), token)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"user":     user,
		"is_admin": h.admins.IsAdmin(r.Context(), user.ID),
	}})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
