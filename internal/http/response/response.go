// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков: успешных ответов, ошибок
// и сообщений валидации в едином конверте {"status","error","data"}.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/stockmate/internal/lib/jwt"
	"github.com/magabrotheeeer/stockmate/internal/lib/validation"
	"github.com/magabrotheeeer/stockmate/internal/models"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status: статус запроса ("OK" или "Error").
// Поле Error: текст ошибки (опционально, при неуспехе).
// Поле Data: данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse описывает ответ-ошибку в Swagger-документации.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"unauthorized"`
}

const (
	// StatusOK: значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError: значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// Публичные тексты ошибок. Подробности пишутся только в лог.
const (
	MsgUnauthorized   = "unauthorized"
	MsgNotFound       = "not found"
	MsgEmailTaken     = "email already registered"
	MsgBadCredentials = "invalid email or password"
	MsgBadRequest     = "failed to decode request"
	MsgValidation     = "validation failed"
	MsgInternal       = "internal error"
)

// StatusOKWithData возвращает успешный Response с переданными данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// OK пишет успешный ответ с кодом status.
func OK(w http.ResponseWriter, r *http.Request, status int, data any) {
	render.Status(r, status)
	render.JSON(w, r, StatusOKWithData(data))
}

// Fail пишет ответ-ошибку с кодом status.
func Fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, Error(msg))
}

// Unauthorized пишет одинаковый для всех причин ответ 401.
func Unauthorized(w http.ResponseWriter, r *http.Request) {
	Fail(w, r, http.StatusUnauthorized, MsgUnauthorized)
}

// FromError сопоставляет доменную ошибку коду ответа и публичному сообщению.
func FromError(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, MsgNotFound
	case errors.Is(err, models.ErrEmailTaken):
		return http.StatusConflict, MsgEmailTaken
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, MsgBadCredentials
	case errors.Is(err, models.ErrUnauthorized), errors.Is(err, jwt.ErrInvalidToken):
		return http.StatusUnauthorized, MsgUnauthorized
	case errors.Is(err, models.ErrValidation):
		if _, detail, ok := strings.Cut(err.Error(), models.ErrValidation.Error()+": "); ok {
			return http.StatusUnprocessableEntity, MsgValidation + ": " + detail
		}
		return http.StatusUnprocessableEntity, MsgValidation
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}

// WriteError пишет ответ для доменной ошибки err.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := FromError(err)
	Fail(w, r, status, msg)
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of: %s", err.Field(),
				strings.ReplaceAll(err.Param(), " ", ", ")))
		case "gt":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be greater than %s", err.Field(), err.Param()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s long", err.Field(), err.Param()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s long", err.Field(), err.Param()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case validation.TagDate:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a date in format YYYY-MM-DD", err.Field()))
		case "nefield":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must differ from %s", err.Field(), err.Param()))
		case validation.TagWholePieces:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a whole number for pcs", err.Field()))
		case validation.TagMinAmount:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s for this unit", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

// Invalid пишет ответ 422 для ошибки валидатора либо 400, если err не является
// ошибкой валидации полей.
func Invalid(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, ValidationError(verrs))
		return
	}
	Fail(w, r, http.StatusBadRequest, MsgBadRequest)
}
