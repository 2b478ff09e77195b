package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/templui/keystone/internal/ctxkeys"
)

// Recover turns a panicking handler into a 500 and logs the stack.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			slog.Error("panic serving request",
				"request_id", ctxkeys.RequestID(r.Context()),
				"path", r.URL.Path,
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			writeError(w, http.StatusInternalServerError, "Something went wrong.")
		}()
		next.ServeHTTP(w, r)
	})
}
