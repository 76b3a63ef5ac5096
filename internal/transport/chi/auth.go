package chi

import (
	"context"
	"net/http"
)

type contextKey string

const userIDKey contextKey = "user_id"

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// UserIDMiddleware returns a middleware that resolves the acting user from the
// X-User-Id header (or a user_id query parameter for legacy clients) and puts
// it into the request context. The identity is trusted as-is; an upstream
// gateway is expected to have authenticated it.
func UserIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			userID := r.Header.Get("X-User-Id")
			if userID == "" {
				userID = r.URL.Query().Get("user_id")
			}
			if userID == "" {
				writeError(w, http.StatusUnauthorized, codeUnauthorized,
					"Unauthorized. Please provide X-User-Id header.")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID extracts the acting user id placed by UserIDMiddleware. Empty on
// exempt paths.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
