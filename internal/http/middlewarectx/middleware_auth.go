// Package middlewarectx содержит HTTP middleware StockMate: проверку Bearer-токена,
// ограничение частоты запросов по IP клиента и сбор метрик Prometheus.
//
// JWTMiddleware проверяет токен в заголовке Authorization через сервис
// аутентификации и в случае успеха кладёт в контекст идентификатор пользователя
// и claims токена. Любая причина отказа даёт одинаковый ответ 401.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/stockmate/internal/http/response"
	"github.com/magabrotheeeer/stockmate/internal/lib/jwt"
	"github.com/magabrotheeeer/stockmate/internal/lib/sl"
	"github.com/magabrotheeeer/stockmate/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserIDKey: ключ идентификатора пользователя в контексте.
	UserIDKey Key = "user_id"
	// ClaimsKey: ключ claims токена в контексте.
	ClaimsKey Key = "claims"
)

const bearerPrefix = "Bearer "

// TokenValidator описывает сервис проверки токена.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*jwt.Claims, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Ошибка хранилища отзыва (не models.ErrUnauthorized) отдаётся как 500.
func JWTMiddleware(auth TokenValidator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				log.Info("missing bearer token")
				response.Unauthorized(w, r)
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
			if token == "" {
				log.Info("empty bearer token")
				response.Unauthorized(w, r)
				return
			}

			claims, err := auth.ValidateToken(r.Context(), token)
			if err != nil {
				if errors.Is(err, models.ErrUnauthorized) {
					log.Info("token rejected", sl.Err(err))
					response.Unauthorized(w, r)
					return
				}
				log.Error("failed to validate token", sl.Err(err))
				response.Fail(w, r, http.StatusInternalServerError, response.MsgInternal)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID())
			ctx = context.WithValue(ctx, ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID возвращает идентификатор аутентифицированного пользователя.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}

// Claims возвращает claims токена текущего запроса.
func Claims(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*jwt.Claims)
	return claims, ok && claims != nil
}

// WithUser кладёт в контекст идентификатор пользователя и claims.
// Используется в тестах обработчиков, минуя проверку токена.
func WithUser(ctx context.Context, claims *jwt.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID())
	return context.WithValue(ctx, ClaimsKey, claims)
}
