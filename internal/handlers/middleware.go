package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"speechcoach/internal/models"
	"speechcoach/internal/security"
	"speechcoach/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const UserContextKey ContextKey = "user"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	csrf        *security.CSRFGenerator
	limiter     *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, csrf *security.CSRFGenerator) *Middleware {
	return &Middleware{
		authService: authService,
		csrf:        csrf,
		limiter:     security.NewRateLimiter(10, time.Minute),
	}
}

// RequireAuth requires a valid session cookie or a bearer token. Mutating
// requests authenticated by cookie must also carry a valid CSRF header;
// bearer tokens are exempt since they are never sent by the browser
// automatically.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, sessionID := m.resolveUser(r)
		if user == nil {
			respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
			return
		}

		if sessionID != "" && isMutating(r.Method) {
			token := r.Header.Get(CSRFHeaderName)
			if token == "" || !m.csrf.ValidateToken(sessionID, token) {
				respondWithError(w, http.StatusForbidden, "Invalid CSRF token", "", nil)
				return
			}
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// RequireAuthor requires an authenticated admin or instructor.
func (m *Middleware) RequireAuthor(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil || !user.Role.CanAuthor() {
			respondWithError(w, http.StatusForbidden, ErrForbidden, "", nil)
			return
		}
		next(w, r)
	})
}

// RequireAdmin requires an authenticated admin.
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil || user.Role != models.RoleAdmin {
			respondWithError(w, http.StatusForbidden, ErrForbidden, "", nil)
			return
		}
		next(w, r)
	})
}

// RateLimit throttles by client IP. Applied to credential endpoints.
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

// resolveUser authenticates the request. The second return value is the
// session ID when the user arrived via cookie, empty for bearer tokens.
func (m *Middleware) resolveUser(r *http.Request) (*models.User, string) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		user, err := m.authService.ValidateSession(cookie.Value)
		if err == nil && user != nil {
			return user, cookie.Value
		}
	}

	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		user, err := m.authService.VerifyToken(token)
		if err == nil && user != nil {
			return user, ""
		}
	}

	return nil, ""
}

func isMutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetUserFromContext retrieves the user from the request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
