package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
	"github.com/lumiforge/vidlinkgen-backend/internal/identity"
	"github.com/lumiforge/vidlinkgen-backend/internal/jwt"
	"github.com/lumiforge/vidlinkgen-backend/internal/logger"
)

// Context keys for storing values in request context
type contextKey string

const (
	IdentityKey  contextKey = "identity"
	RequestIDKey contextKey = "request_id"
)

// IdentityResolver превращает access token в контекст пользователя
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, accessToken string) (*identity.Context, error)
}

// AuthMiddleware требует валидный bearer token. Пользователь читается из базы на каждый
// запрос, чтобы роль и премиум были актуальными.
func AuthMiddleware(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "Authorization header is required")
				return
			}

			tokenString, err := jwt.ExtractTokenFromHeader(authHeader)
			if err != nil {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}

			id, err := resolver.ResolveIdentity(r.Context(), tokenString)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
		})
	}
}

// OptionalAuthMiddleware пропускает анонимных посетителей. Невалидный токен трактуется
// как отсутствие токена.
func OptionalAuthMiddleware(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, err := jwt.ExtractTokenFromHeader(authHeader)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			id, err := resolver.ResolveIdentity(r.Context(), tokenString)
			if err != nil {
				logger.FromContext(r.Context()).Debug("Ignoring invalid optional token", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
		})
	}
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggingMiddleware logs requests and responses with structured logging
func LoggingMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			requestID, _ := r.Context().Value(RequestIDKey).(string)

			l := base.With("request_id", requestID, "method", r.Method, "path", r.URL.Path)
			ctx := logger.WithContext(r.Context(), l)

			l.Info("Request started", "remote_addr", r.RemoteAddr, "user_agent", r.UserAgent())

			next.ServeHTTP(wrapped, r.WithContext(ctx))

			l.Info("Request completed",
				"status_code", wrapped.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size_bytes", wrapped.size,
			)
		})
	}
}

// CORSMiddleware adds CORS headers
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// TODO: ограничить Origin доменом фронтенда из конфига
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ContentTypeMiddleware ensures JSON content type for endpoints with a body
func ContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			if r.ContentLength != 0 && !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
				writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// MultipartMiddleware ensures multipart content type for upload endpoints
func MultipartMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be multipart/form-data")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// responseWriter is a wrapper around http.ResponseWriter to capture status code and response size
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

func withIdentity(ctx context.Context, id *identity.Context) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// GetIdentity extracts the caller from request context. Nil for anonymous visitors.
func GetIdentity(r *http.Request) *identity.Context {
	id, _ := r.Context().Value(IdentityKey).(*identity.Context)
	return id
}

// requireIdentity возвращает пользователя или ErrUnauthenticated
func requireIdentity(r *http.Request) (*identity.Context, error) {
	id := GetIdentity(r)
	if !id.IsAuthenticated() {
		return nil, app_errors.ErrUnauthenticated
	}
	return id, nil
}

// GetRequestID extracts request ID from request context
func GetRequestID(r *http.Request) (string, bool) {
	requestID, ok := r.Context().Value(RequestIDKey).(string)
	return requestID, ok
}
