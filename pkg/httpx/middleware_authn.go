package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/onkyoh/paper-kitchen-api/pkg/slogx"
)

// AccessVerifier validates a bearer token and yields the caller's stable
// user identifier and display name.
type AccessVerifier interface {
	VerifyAccess(raw string) (userID, name string, err error)
}

// AuthnMiddleware authenticates requests via the Authorization header and
// injects the caller's identity into the request context. Requests without a
// valid bearer token are rejected with 401.
func AuthnMiddleware(v AccessVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			userID, name, err := v.VerifyAccess(raw)
			if err != nil {
				log.Warn("access token verification failed", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			ctx = context.WithValue(ctx, CtxKeyUserID, userID)
			ctx = context.WithValue(ctx, CtxKeyUserName, name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteMessage(w, http.StatusUnauthorized, "Authentication required")
}
