// Package middleware carries the request pipeline: request IDs, the
// request-scoped reference time, and JWT auth with privilege tiers.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"fiscaldesk/internal/platform/auth"
	dErrors "fiscaldesk/pkg/domain-errors"
	"fiscaldesk/pkg/platform/httputil"
	"fiscaldesk/pkg/requestcontext"
)

// RequestIDHeader is echoed back so clients can correlate logs.
const RequestIDHeader = "X-Request-ID"

// RequestID stamps every request with an ID, honoring one supplied by the
// caller.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestTime captures the current time once at the start of the request.
// Every temporal rule downstream reads this single "now", so one request
// never sees two different reference dates.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator interface {
	Validate(tokenString string) (*auth.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token and stamps the
// context with the authenticated subject and its privilege tier.
func RequireAuth(tokens TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access, missing bearer token",
					"request_id", requestcontext.RequestID(ctx), "path", r.URL.Path)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access, invalid token",
					"request_id", requestcontext.RequestID(ctx), "error", err)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			ctx = requestcontext.WithActor(ctx, claims.Subject)
			ctx = requestcontext.WithRole(ctx, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin guards mutating endpoints; auditors can read everything but
// change nothing.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if role := requestcontext.Role(ctx); role != auth.RoleAdmin {
				logger.WarnContext(ctx, "forbidden, admin tier required",
					"request_id", requestcontext.RequestID(ctx),
					"actor", requestcontext.Actor(ctx), "role", role, "path", r.URL.Path)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "administrator privileges required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
