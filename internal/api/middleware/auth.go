package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// Policy decides whether a request may read the schema.
type Policy func(r *http.Request) bool

// AllowAll admits every request.
func AllowAll(*http.Request) bool { return true }

// BearerToken admits requests carrying "Authorization: Bearer <token>". An
// empty token admits everything.
func BearerToken(token string) Policy {
	if token == "" {
		return AllowAll
	}
	return func(r *http.Request) bool {
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			return false
		}
		return subtle.ConstantTimeCompare([]byte(got), []byte(token)) == 1
	}
}

// Authorize rejects requests the policy denies with 403.
func Authorize(policy Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !policy(r) {
				writeForbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeForbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": map[string]string{"error": "Unauthorized access to the schema inspector."},
		"meta": map[string]string{"timestamp": time.Now().Format(time.RFC3339)},
	})
}
