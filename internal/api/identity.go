package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/nicolaspreciadodev/gosport/internal/booking"
)

// Session handling lives outside this service; an upstream gateway
// authenticates the caller and forwards the resolved identity in the
// X-User-ID header. This middleware turns that into a booking.Principal.

type principalKey struct{}

// WithIdentity resolves the acting principal from the X-User-ID header.
// Requests without a resolvable identity pass through anonymous; handlers
// that need a principal reject them.
func WithIdentity(users booking.UserDirectory) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("X-User-ID"))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || userID <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			user, err := users.GetUser(r.Context(), userID)
			if err != nil || !user.Active {
				next.ServeHTTP(w, r)
				return
			}

			principal := booking.Principal{UserID: user.ID, Email: user.Email, Role: user.Role}
			ctx := context.WithValue(r.Context(), principalKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext returns the acting principal, if any.
func PrincipalFromContext(ctx context.Context) (booking.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(booking.Principal)
	return principal, ok
}

// ContextWithPrincipal injects a principal; used by tests.
func ContextWithPrincipal(ctx context.Context, principal booking.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}
