// Package middleware provides HTTP middleware for the Fix-My-Ward server.
package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fixmyward/ward-server/internal/models"
	"github.com/fixmyward/ward-server/internal/services"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// StructuredLogger returns a middleware that logs HTTP requests with zap
func StructuredLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap response writer to capture status code
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.statusCode),
				zap.Duration("latency", time.Since(start)),
				zap.String("request_id", chimw.GetReqID(r.Context())),
			}
			if user, ok := services.UserFromContext(r.Context()); ok {
				fields = append(fields, zap.String("user_id", user.ID))
			}
			logger.Info("HTTP Request", fields...)
		})
	}
}

// SecureHeaders sets conservative response headers on every reply.
func SecureHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer")
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth validates the bearer token and puts the session user on the
// request context.
func RequireAuth(issuer *services.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				jsonError(w, http.StatusUnauthorized, "Authorization required")
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			user, err := issuer.Verify(tokenStr)
			if err != nil {
				jsonError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(services.WithUser(r.Context(), user)))
		})
	}
}

// RequireRole lets through only session users with the given role.
// It must run after RequireAuth.
func RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := services.UserFromContext(r.Context())
			if !ok {
				jsonError(w, http.StatusUnauthorized, "Authorization required")
				return
			}
			if user.Role != role {
				jsonError(w, http.StatusForbidden, strings.ToLower(string(role))+" access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type window struct {
	start time.Time
	count int
}

// fixedWindow counts requests per client over one-minute windows.
type fixedWindow struct {
	limit int
	now   func() time.Time

	mu      sync.Mutex
	clients map[string]*window
}

func (l *fixedWindow) allow(client string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.clients[client]
	if !ok || now.Sub(w.start) >= time.Minute {
		l.clients[client] = &window{start: now, count: 1}
		return true
	}
	w.count++
	return w.count <= l.limit
}

// sweep drops windows that ended before cutoff.
func (l *fixedWindow) sweep(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for client, w := range l.clients {
		if w.start.Before(cutoff) {
			delete(l.clients, client)
		}
	}
}

func (l *fixedWindow) run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep(l.now().Add(-2 * time.Minute))
		}
	}
}

// RateLimit allows each client address requestsPerMinute requests per
// fixed one-minute window. Stale windows are swept until ctx is done.
func RateLimit(ctx context.Context, requestsPerMinute int) func(http.Handler) http.Handler {
	l := &fixedWindow{
		limit:   requestsPerMinute,
		now:     time.Now,
		clients: make(map[string]*window),
	}
	go l.run(ctx, 5*time.Minute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(r.RemoteAddr) {
				jsonError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func jsonError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
