package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// CORS returns a CORS middleware with the given allowed origins
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
		},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// DefaultCORS allows the configured console origin, plus localhost
// variants when the console itself runs locally.
func DefaultCORS(consoleURL string) func(http.Handler) http.Handler {
	allowedOrigins := []string{consoleURL}
	if strings.Contains(consoleURL, "localhost") || strings.Contains(consoleURL, "127.0.0.1") {
		allowedOrigins = append(allowedOrigins,
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		)
	}
	return CORS(allowedOrigins)
}
