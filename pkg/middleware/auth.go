package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/leadflow/lead-manager-api/internal/usecases/authenticating"
)

type contextKey string

const (
	ContextKeyUser contextKey = "user"
)

// Rotas de ingestão ficam fora da autenticação: formulários públicos e o
// pixel de rastreamento precisam funcionar para visitantes anônimos.
func isPublicPath(r *http.Request) bool {
	path := r.URL.Path

	switch path {
	case "/v1/login", "/healthcheck":
		return true
	}

	if path == "/v1/leads" && r.Method == http.MethodPost {
		return true
	}

	if strings.HasPrefix(path, "/v1/leads/") {
		if strings.HasSuffix(path, "/pixel.gif") && r.Method == http.MethodGet {
			return true
		}
		if strings.HasSuffix(path, "/engagement") && r.Method == http.MethodPatch {
			return true
		}
	}

	return false
}

func AuthMiddleware(authService authenticating.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r) {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header is required", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				http.Error(w, "Bearer token is required", http.StatusUnauthorized)
				return
			}

			claims, err := authService.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
