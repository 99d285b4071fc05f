package handlers

import (
	"context"
	"net/http"
	"strings"

	"gitlab.com/judgerunner.net/internal/core/ports/primary"
	"gitlab.com/judgerunner.net/internal/domain"
	"gitlab.com/judgerunner.net/internal/handlers/response"
)

type ctxKey struct{}

type MiddlewareProvider struct {
	jwtService    primary.JWTService
	allowedOrigin string
}

func New(jwtService primary.JWTService, allowedOrigin string) *MiddlewareProvider {
	return &MiddlewareProvider{
		jwtService:    jwtService,
		allowedOrigin: allowedOrigin,
	}
}

// JWTMiddleware rejects requests without a valid bearer token and puts the
// decoded AuthPayload into the request context.
func (m *MiddlewareProvider) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.WriteError(w, response.ErrorMessage{Message: "Authorization header missing", StatusCode: http.StatusUnauthorized})
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			response.WriteError(w, response.ErrorMessage{Message: "Authorization header must use the Bearer scheme", StatusCode: http.StatusUnauthorized})
			return
		}
		payload, err := m.jwtService.ParseTokenHMAC(r.Context(), tokenString)
		if err != nil {
			response.WriteError(w, response.ErrorMessage{Message: "Invalid token", StatusCode: http.StatusUnauthorized})
			return
		}

		if !hasPermission(payload, domain.PermissionSubmit) {
			response.WriteError(w, response.ErrorMessage{Message: "Forbidden", StatusCode: http.StatusForbidden})
			return
		}

		next.ServeHTTP(w, r.WithContext(WithAuthPayload(r.Context(), payload)))
	})
}

// CORSMiddleware allows the browser editor to call the API with credentials
func (m *MiddlewareProvider) CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.allowedOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", m.allowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithAuthPayload(ctx context.Context, payload domain.AuthPayload) context.Context {
	return context.WithValue(ctx, ctxKey{}, payload)
}

func AuthPayloadFrom(ctx context.Context) (domain.AuthPayload, bool) {
	payload, ok := ctx.Value(ctxKey{}).(domain.AuthPayload)
	return payload, ok
}

func hasPermission(payload domain.AuthPayload, permission string) bool {
	for _, p := range payload.Permission {
		if p == permission {
			return true
		}
	}
	return false
}
