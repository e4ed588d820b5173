package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/josh-kwaku/bakery-pos/internal/handler"
	"github.com/josh-kwaku/bakery-pos/internal/logging"
)

// Recovery turns a handler panic into a 500 carrying the request id, so the
// till operator can quote it. http.ErrAbortHandler is re-raised.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}

			id := RequestIDFromContext(r.Context())
			logging.FromContext(r.Context()).Error("panic recovered",
				"error", v,
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)

			var details any
			if id != "" {
				details = map[string]string{"request_id": id}
			}
			handler.RespondAppError(w, handler.ErrInternalError, details)
		}()
		next.ServeHTTP(w, r)
	})
}
