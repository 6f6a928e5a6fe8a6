// Package request содержит общие шаги разбора HTTP-запроса: декодирование JSON,
// валидацию, получение владельца из контекста и идентификатора из пути.
// Каждая функция при неудаче сама пишет ответ и возвращает false.
package request

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/stockmate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/stockmate/internal/http/response"
	"github.com/magabrotheeeer/stockmate/internal/lib/sl"
)

// Decode читает тело запроса в dst и проверяет его валидатором v.
// Некорректный JSON: 400, нарушение правил полей: 422.
func Decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, v *validator.Validate, dst any) bool {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, response.MsgBadRequest)
		return false
	}

	if err := v.Struct(dst); err != nil {
		log.Info("validation failed", sl.Err(err))
		response.Invalid(w, r, err)
		return false
	}
	return true
}

// Owner возвращает идентификатор пользователя, установленный JWTMiddleware.
func Owner(w http.ResponseWriter, r *http.Request, log *slog.Logger) (string, bool) {
	userID, ok := middlewarectx.UserID(r.Context())
	if !ok {
		log.Error("user id not found in context")
		response.Unauthorized(w, r)
		return "", false
	}
	return userID, true
}

// ID возвращает параметр пути {id}. Значение, не являющееся UUID, не может
// принадлежать ни одной записи, поэтому ответ: 404.
func ID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (string, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		log.Info("invalid id in url", slog.String("id", raw))
		response.Fail(w, r, http.StatusNotFound, response.MsgNotFound)
		return "", false
	}
	return id.String(), true
}
