package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/menstyle/storefront/internal/repository"
	"github.com/menstyle/storefront/pkg/middleware"
)

// AdminChecker decides whether an authenticated user may use the admin area.
// Privilege is a row in the admin users table, not a token claim: revoking a
// row takes effect on the next request without reissuing tokens.
type AdminChecker struct {
	repo   repository.AdminUserRepository
	logger *slog.Logger
}

// NewAdminChecker creates a new admin checker.
func NewAdminChecker(repo repository.AdminUserRepository, logger *slog.Logger) *AdminChecker {
	return &AdminChecker{
		repo:   repo,
		logger: logger,
	}
}

// IsAdmin reports whether the user id has an admin row. Lookup failures are
// logged and treated as not-admin rather than surfaced: a flaky check must
// never grant access, and must not take the public storefront down either.
func (c *AdminChecker) IsAdmin(ctx context.Context, userID string) bool {
	if userID == "" {
		return false
	}

	ok, err := c.repo.IsAdmin(ctx, userID)
	if err != nil {
		c.logger.ErrorContext(ctx, "admin lookup failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return false
	}

	return ok
}

// RequireAdmin is a middleware gating a route subtree to admin users. It must
// run after the auth middleware so the user id is in the context.
func RequireAdmin(checker *AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := middleware.UserIDFromContext(r.Context())
			if !checker.IsAdmin(r.Context(), userID) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"code":    "FORBIDDEN",
					"message": "admin access required",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
