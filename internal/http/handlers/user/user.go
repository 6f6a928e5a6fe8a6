// Package user реализует HTTP-обработчики профиля пользователя: просмотр,
// изменение, удаление аккаунта, отчёт активности и смену пароля.
//
// Доступ разрешён только к собственному профилю; чужой идентификатор даёт 404.
package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/stockmate/internal/http/request"
	"github.com/magabrotheeeer/stockmate/internal/http/response"
	"github.com/magabrotheeeer/stockmate/internal/lib/sl"
	"github.com/magabrotheeeer/stockmate/internal/models"
)

// Service описывает бизнес-логику профиля.
type Service interface {
	Get(ctx context.Context, callerID, id string) (*models.User, error)
	Update(ctx context.Context, callerID, id string, req models.UserUpdateRequest) (*models.User, error)
	Delete(ctx context.Context, callerID, id string) error
	Report(ctx context.Context, callerID, id string) (*models.ActivityReport, error)
}

// PasswordService меняет пароль и выдаёт новый токен.
type PasswordService interface {
	ChangePassword(ctx context.Context, userID string, req models.PasswordChangeRequest) (*models.AuthResult, error)
}

// Handler обрабатывает запросы /api/user/{id}.
type Handler struct {
	log       *slog.Logger
	service   Service
	passwords PasswordService
	validate  *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service, passwords PasswordService, validate *validator.Validate) *Handler {
	return &Handler{
		log:       log,
		service:   service,
		passwords: passwords,
		validate:  validate,
	}
}

// target возвращает вызывающего пользователя и идентификатор из пути.
func (h *Handler) target(w http.ResponseWriter, r *http.Request, op string) (*slog.Logger, string, string, bool) {
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	callerID, ok := request.Owner(w, r, log)
	if !ok {
		return nil, "", "", false
	}
	id, ok := request.ID(w, r, log)
	if !ok {
		return nil, "", "", false
	}
	return log, callerID, id, true
}

// Get godoc
// @Summary Профиль пользователя
// @Tags User
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID пользователя"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/user/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log, callerID, id, ok := h.target(w, r, "handlers.user.Get")
	if !ok {
		return
	}

	user, err := h.service.Get(r.Context(), callerID, id)
	if err != nil {
		log.Info("failed to get user", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, r, http.StatusOK, user)
}

// Update godoc
// @Summary Изменить профиль
// @Description Пароль этим запросом не меняется.
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID пользователя"
// @Param request body models.UserUpdateRequest true "Изменяемые поля"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /api/user/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log, callerID, id, ok := h.target(w, r, "handlers.user.Update")
	if !ok {
		return
	}

	var req models.UserUpdateRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	user, err := h.service.Update(r.Context(), callerID, id, req)
	if err != nil {
		log.Info("failed to update user", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, r, http.StatusOK, user)
}

// Delete godoc
// @Summary Удалить аккаунт
// @Description Удаляет пользователя вместе с запасами, покупками и рецептами.
// @Tags User
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID пользователя"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/user/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log, callerID, id, ok := h.target(w, r, "handlers.user.Delete")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), callerID, id); err != nil {
		log.Info("failed to delete user", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	log.Info("user deleted", slog.String("user_id", id))
	response.OK(w, r, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// Report godoc
// @Summary Отчёт активности
// @Tags User
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID пользователя"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/user/{id}/report [get]
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	log, callerID, id, ok := h.target(w, r, "handlers.user.Report")
	if !ok {
		return
	}

	report, err := h.service.Report(r.Context(), callerID, id)
	if err != nil {
		log.Info("failed to build report", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, r, http.StatusOK, report)
}

// ChangePassword godoc
// @Summary Сменить пароль
// @Description Ранее выданные токены перестают действовать, в ответе новый токен.
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID пользователя"
// @Param request body models.PasswordChangeRequest true "Текущий и новый пароль"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /api/user/{id}/password [put]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	log, callerID, id, ok := h.target(w, r, "handlers.user.ChangePassword")
	if !ok {
		return
	}
	if id != callerID {
		log.Info("password change for another user")
		response.Fail(w, r, http.StatusNotFound, response.MsgNotFound)
		return
	}

	var req models.PasswordChangeRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	result, err := h.passwords.ChangePassword(r.Context(), callerID, req)
	if err != nil {
		log.Info("failed to change password", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	log.Info("password changed")
	response.OK(w, r, http.StatusOK, result)
}
