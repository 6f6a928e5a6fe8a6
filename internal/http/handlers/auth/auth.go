// Package auth реализует HTTP-обработчики регистрации, входа и выхода.
//
// Регистрация и вход возвращают JWT и профиль пользователя. Неверный email и
// неверный пароль неразличимы для клиента: оба дают 401 с одним текстом.
package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/stockmate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/stockmate/internal/http/request"
	"github.com/magabrotheeeer/stockmate/internal/http/response"
	"github.com/magabrotheeeer/stockmate/internal/lib/jwt"
	"github.com/magabrotheeeer/stockmate/internal/lib/sl"
	"github.com/magabrotheeeer/stockmate/internal/models"
)

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResult, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
}

// Handler обрабатывает запросы /api/auth.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service, validate *validator.Validate) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate,
	}
}

// Signup godoc
// @Summary Регистрация пользователя
// @Description Создает пользователя и возвращает JWT.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.SignupRequest true "Данные пользователя"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Email уже зарегистрирован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Router /api/auth/signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.Signup"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.SignupRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	result, err := h.service.Signup(r.Context(), req)
	if err != nil {
		log.Info("signup failed", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("user registered", slog.String("user_id", result.User.ID))
	response.OK(w, r, http.StatusCreated, result)
}

// Login godoc
// @Summary Авторизация пользователя
// @Description Аутентифицирует пользователя по email и паролю. Возвращает JWT.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Учетные данные пользователя"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /api/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.Login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.LoginRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	result, err := h.service.Login(r.Context(), req)
	if err != nil {
		log.Info("login failed", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("login success", slog.String("user_id", result.User.ID))
	response.OK(w, r, http.StatusOK, result)
}

// Logout godoc
// @Summary Выход
// @Description Отзывает предъявленный токен.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Router /api/auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.Logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	claims, ok := middlewarectx.Claims(r.Context())
	if !ok {
		log.Error("claims not found in context")
		response.Unauthorized(w, r)
		return
	}

	if err := h.service.Logout(r.Context(), claims); err != nil {
		log.Error("logout failed", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, r, http.StatusOK, map[string]string{"message": "Logged out"})
}
