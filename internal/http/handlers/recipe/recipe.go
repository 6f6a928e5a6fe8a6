// Package recipe реализует HTTP-обработчики сохранённых рецептов пользователя.
package recipe

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

// Service описывает бизнес-логику рецептов.
type Service interface {
	List(ctx context.Context, userID string) ([]*models.Recipe, error)
	Create(ctx context.Context, userID string, req models.RecipeRequest) (*models.Recipe, error)
	Update(ctx context.Context, userID, id string, req models.RecipeUpdateRequest) (*models.Recipe, error)
	Remove(ctx context.Context, userID, id string) error
}

// Handler обрабатывает запросы /api/recipe.
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

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// List godoc
// @Summary Список рецептов
// @Tags Recipe
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Router /api/recipe [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipe.List"
	log := h.logger(r, op)

	userID, ok := request.Owner(w, r, log)
	if !ok {
		return
	}

	recipes, err := h.service.List(r.Context(), userID)
	if err != nil {
		log.Error("failed to list recipes", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, r, http.StatusOK, recipes)
}

// Create godoc
// @Summary Сохранить рецепт
// @Tags Recipe
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.RecipeRequest true "Рецепт"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /api/recipe [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipe.Create"
	log := h.logger(r, op)

	userID, ok := request.Owner(w, r, log)
	if !ok {
		return
	}

	var req models.RecipeRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	recipe, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		log.Error("failed to create recipe", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	log.Info("recipe created", slog.String("id", recipe.ID))
	response.OK(w, r, http.StatusCreated, recipe)
}

// Update godoc
// @Summary Изменить рецепт
// @Tags Recipe
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID рецепта"
// @Param request body models.RecipeUpdateRequest true "Изменяемые поля"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /api/recipe/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipe.Update"
	log := h.logger(r, op)

	userID, ok := request.Owner(w, r, log)
	if !ok {
		return
	}
	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}

	var req models.RecipeUpdateRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	recipe, err := h.service.Update(r.Context(), userID, id, req)
	if err != nil {
		log.Info("failed to update recipe", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, r, http.StatusOK, recipe)
}

// Remove godoc
// @Summary Удалить рецепт
// @Tags Recipe
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID рецепта"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/recipe/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipe.Remove"
	log := h.logger(r, op)

	userID, ok := request.Owner(w, r, log)
	if !ok {
		return
	}
	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}

	if err := h.service.Remove(r.Context(), userID, id); err != nil {
		log.Info("failed to remove recipe", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, r, http.StatusOK, map[string]string{"message": "Recipe deleted"})
}
