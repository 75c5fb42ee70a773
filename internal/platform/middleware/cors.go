package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
)

// corsMaxAge is how long browsers may cache a preflight answer.
const corsMaxAge = 10 * time.Minute

// CORS allows the donor web client to call the API. With no origins every
// origin is allowed. Exposed headers are the ones the client reads: the
// pagination total and links, the Location of a registered donor and the
// correlation ID it reports back on errors.
func CORS(origins ...string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-Id",
			"traceparent",
		},
		ExposedHeaders: []string{"Link", "Location", "X-Request-Id", "X-Total-Count"},
		MaxAge:         int(corsMaxAge.Seconds()),
	})
}
