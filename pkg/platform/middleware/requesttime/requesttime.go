// Package requesttime stamps each request with a single "now" and a request ID
// so logs, stored decisions and audit events of one request agree.
package requesttime

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"trustgate/pkg/requestcontext"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

// Middleware captures the request time and assigns a request ID, reusing an
// inbound X-Request-ID when the caller supplies one.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := requestcontext.WithTime(r.Context(), time.Now())
		ctx = requestcontext.WithRequestID(ctx, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
