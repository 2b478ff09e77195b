package middleware

import (
	"net/http"
	"strings"

	"github.com/templui/keystone/internal/ctxkeys"
)

// UserIDHeader carries the caller's id, set by the gateway in front of the API.
const UserIDHeader = "X-User-ID"

// RequireUser rejects requests without a caller id and stores it in the context.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if userID == "" {
			writeError(w, http.StatusUnauthorized, "Missing user identity.")
			return
		}

		ctx := ctxkeys.WithUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
