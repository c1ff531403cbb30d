package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/planbill/planbill/internal/auth"
	"github.com/planbill/planbill/internal/domain/user"
	"github.com/planbill/planbill/internal/pkg/errors"
	"github.com/planbill/planbill/internal/pkg/logger"
	"github.com/planbill/planbill/internal/pkg/metrics"
	"github.com/planbill/planbill/internal/pkg/utils"
)

// ContextKey is a custom type for context keys
type ContextKey string

const (
	// UserIDKey is the context key for user ID
	UserIDKey ContextKey = "userID"
	// UserEmailKey is the context key for user email
	UserEmailKey ContextKey = "email"
)

// unauthorizedMessage is the only detail either gate ever sends back.
// The admin gate in particular collapses every failure, including an
// internal role-check error, to this same body so callers cannot tell
// a bad token from a missing privilege.
const unauthorizedMessage = "Unauthorized"

// extractToken pulls the access token from the Authorization header
// or the accessToken cookie
func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	if cookie, err := r.Cookie("accessToken"); err == nil {
		return cookie.Value
	}
	return ""
}

// clearSession expires both token cookies. Failed verification must
// not leave stale session artifacts behind.
func clearSession(w http.ResponseWriter) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			HttpOnly: true,
			Path:     "/",
			MaxAge:   -1,
		})
	}
}

// Authenticated returns a middleware that validates the caller's
// token and attaches the verified identity to the request context.
// On failure it clears session cookies and answers a bare 401.
func Authenticated(jwtSecret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := verify(r, jwtSecret)
			if err != nil {
				log.WithError(err).Debug("Identity verification failed")
				metrics.RecordAuthFailure("authenticated")
				clearSession(w)
				utils.WriteError(w, errors.Unauthorized(unauthorizedMessage))
				return
			}

			ctx := withIdentity(r.Context(), claims)
			AddLogField(w, "user_id", claims.UserID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly returns a middleware that validates the caller's token
// and requires administrator privilege. Verification failure, a
// not-admin caller and any internal error during the role check all
// surface as the identical 401 body; the distinction is logged only.
func AdminOnly(jwtSecret string, users user.Service, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := verify(r, jwtSecret)
			if err == nil && !users.IsAdmin(r.Context(), claims.UserID) {
				err = errors.Unauthorized("Admins only")
			}
			if err != nil {
				log.WithError(err).Debug("Admin gate rejected request")
				metrics.RecordAuthFailure("admin")
				utils.WriteError(w, errors.Unauthorized(unauthorizedMessage))
				return
			}

			ctx := withIdentity(r.Context(), claims)
			AddLogField(w, "user_id", claims.UserID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func verify(r *http.Request, jwtSecret string) (*auth.Claims, error) {
	tokenStr := extractToken(r)
	if tokenStr == "" {
		return nil, errors.Unauthorized("Missing authentication token")
	}
	return auth.ParseClaims(tokenStr, jwtSecret)
}

func withIdentity(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	return context.WithValue(ctx, UserEmailKey, claims.Email)
}

// GetUserID extracts the user ID from the request context
func GetUserID(r *http.Request) (int64, bool) {
	userID, ok := r.Context().Value(UserIDKey).(int64)
	return userID, ok
}

// GetUserEmail extracts the user email from the request context
func GetUserEmail(r *http.Request) (string, bool) {
	email, ok := r.Context().Value(UserEmailKey).(string)
	return email, ok
}
