package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/ariefcatur/go-shop-api.git/internal/auth"
)

type ctxKey int

const userIDKey ctxKey = iota

// UserID returns the authenticated caller's id, or "" on an
// unauthenticated request.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// RequireAuth verifies the bearer credential and puts the caller's
// identity on the request context.
func RequireAuth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const prefix = "Bearer "
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, prefix) {
				writeMsg(w, http.StatusUnauthorized, "No token, authorization denied")
				return
			}
			claims, err := tokens.Verify(strings.TrimPrefix(h, prefix))
			if err != nil {
				writeMsg(w, http.StatusUnauthorized, "Token is not valid")
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
