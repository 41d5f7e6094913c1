package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ordersys/tableside/internal/adapter/logger"
	"github.com/ordersys/tableside/internal/domain"
	"github.com/ordersys/tableside/internal/interfaces"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext returns the authenticated user attached by the session
// middleware, or nil for anonymous requests.
func UserFromContext(ctx context.Context) *domain.UserInfo {
	user, _ := ctx.Value(userContextKey).(*domain.UserInfo)
	return user
}

func LoggingMiddleware(lg logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.NewString()

			lg.Debug("http_request", fmt.Sprintf("%s %s", r.Method, r.URL.Path), requestID, map[string]interface{}{
				"method": r.Method,
				"path":   r.URL.Path,
			})

			next.ServeHTTP(w, r)

			lg.Debug("http_response", "Request completed", requestID, map[string]interface{}{
				"duration_ms": time.Since(start).Milliseconds(),
			})
		})
	}
}

func RecoveryMiddleware(lg logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					lg.Error("panic_recovered", "Panic recovered", "", map[string]interface{}{
						"path": r.URL.Path,
					}, fmt.Errorf("%v", err))
					http.Error(w, "Internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionMiddleware resolves the session token, when present, and attaches
// the user to the request context. Requests without a valid session pass
// through anonymously; gating is done per route.
func SessionMiddleware(auth interfaces.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token != "" {
				if user, err := auth.Authenticate(r.Context(), token); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireStaff rejects requests whose user is missing or lacks a staff role.
func RequireStaff(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
			return
		}
		if !user.Role.IsStaff() {
			respondJSON(w, http.StatusForbidden, map[string]string{"error": "Staff access required"})
			return
		}
		next(w, r)
	}
}

// RequireLogin rejects anonymous requests.
func RequireLogin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
			return
		}
		next(w, r)
	}
}

func sessionToken(r *http.Request) string {
	if c, err := r.Cookie("session_token"); err == nil && c.Value != "" {
		return c.Value
	}
	const prefix = "Bearer "
	if h := r.Header.Get("Authorization"); len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}
