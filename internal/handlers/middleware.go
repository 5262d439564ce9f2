package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"typetracker/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const UserContextKey ContextKey = "user"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	issuer         *security.TokenIssuer
	adminTokenHash string
	limiter        *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(issuer *security.TokenIssuer, adminTokenHash string, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		issuer:         issuer,
		adminTokenHash: adminTokenHash,
		limiter:        limiter,
	}
}

// Identify extracts the signed-in user from a Bearer token when one is
// present. Requests without a valid token proceed anonymously.
func (m *Middleware) Identify(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := m.userIDFromRequest(r)
		if userID == "" {
			next(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), UserContextKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// RequireAuth is middleware that requires a valid Bearer token
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := m.userIDFromRequest(r)
		if userID == "" {
			respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
			return
		}
		ctx := context.WithValue(r.Context(), UserContextKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin is middleware that gates operator endpoints behind the
// admin token
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Admin-Token")
		if !security.CheckAdminToken(m.adminTokenHash, token) {
			respondWithError(w, http.StatusForbidden, "Admin access required", "", nil)
			return
		}
		next(w, r)
	}
}

// RateLimit rejects requests from clients that exceed the per-IP budget
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r)
		if !m.limiter.Allow(ip) {
			respondWithError(w, http.StatusTooManyRequests, "Too many requests", "", nil)
			return
		}
		next(w, r)
	}
}

func (m *Middleware) userIDFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return ""
	}

	userID, err := m.issuer.Verify(token)
	if err != nil {
		return ""
	}
	return userID
}

// CORS allows the frontend origin to call the API from the browser
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowedOrigin == "*" || origin == allowedOrigin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Admin-Token")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// UserIDFromContext retrieves the signed-in user ID from the request
// context. Empty for anonymous requests.
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(UserContextKey).(string)
	return userID
}
