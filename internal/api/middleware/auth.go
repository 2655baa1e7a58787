package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/fleetscope/fleetscope/internal/pkg/errors"
	"github.com/fleetscope/fleetscope/internal/pkg/utils"
)

// ContextKey is a custom type for context keys
type ContextKey string

// APIKey returns a middleware that gates requests on a static bearer
// key. An empty configured key disables the check, which is the local
// development default.
func APIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			presented := strings.TrimPrefix(header, "Bearer ")
			if presented == header || presented == "" {
				utils.WriteError(w, errors.New(errors.ErrCodeBadRequest, "Missing bearer token", http.StatusUnauthorized))
				return
			}

			if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
				utils.WriteError(w, errors.New(errors.ErrCodeBadRequest, "Invalid API key", http.StatusUnauthorized))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
