package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/vendalytics/sales-sync-api/internal/auth"
)

type contextKey string

const (
	ContextKeyUser contextKey = "user"
	ContextKeyCron contextKey = "cron"
)

// AuthMiddleware valida o token de sessão (Bearer JWT) e injeta as claims no
// contexto. Requisições disparadas por agendadores externos podem autenticar
// via header X-Cron-Secret; nesse caso não há usuário associado e o contexto
// recebe apenas a flag de cron.
func AuthMiddleware(validator auth.TokenValidator, cronSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthcheck" {
				next.ServeHTTP(w, r)
				return
			}

			if secret := r.Header.Get("X-Cron-Secret"); secret != "" && cronSecret != "" {
				if subtle.ConstantTimeCompare([]byte(secret), []byte(cronSecret)) == 1 {
					ctx := context.WithValue(r.Context(), ContextKeyCron, true)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}

				http.Error(w, "Invalid cron secret", http.StatusUnauthorized)
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

			claims, err := validator.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extrai as claims do usuário autenticado, se houver.
func UserFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ContextKeyUser).(*auth.Claims)
	return claims, ok
}

// IsCronRequest indica se a requisição foi autenticada via X-Cron-Secret.
func IsCronRequest(ctx context.Context) bool {
	isCron, _ := ctx.Value(ContextKeyCron).(bool)
	return isCron
}
