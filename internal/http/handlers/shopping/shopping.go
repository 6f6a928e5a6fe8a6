// Package shopping реализует HTTP-обработчики списка покупок и его сводки по бюджету.
package shopping

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/stockmate/internal/http/request"
	"github.com/magabrotheeeer/stockmate/internal/http/response"
	"github.com/magabrotheeeer/stockmate/internal/lib/sl"
	"github.com/magabrotheeeer/stockmate/internal/models"
)

// Service описывает бизнес-логику списка покупок.
type Service interface {
	List(ctx context.Context, userID string) ([]*models.ShoppingItem, error)
	Create(ctx context.Context, userID string, req models.ShoppingRequest) (*models.ShoppingItem, error)
	Update(ctx context.Context, userID, id string, req models.ShoppingUpdateRequest) (*models.ShoppingItem, error)
	Remove(ctx context.Context, userID, id string) error
	Summary(ctx context.Context, userID string, budget *float64) (*models.ShoppingSummary, error)
}

// Handler обрабатывает запросы /api/shopping.
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
// @Summary Список покупок
// @Tags Shopping
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Router /api/shopping [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.shopping.List"
	log := h.logger(r, op)

	userID, ok := request.Owner(w, r, log)
	if !ok {
		return
	}

	items, err := h.service.List(r.Context(), userID)
	if err != nil {
		log.Error("failed to list shopping items", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, r, http.StatusOK, items)
}

// Create godoc
// @Summary Добавить позицию в список покупок
// @Tags Shopping
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ShoppingRequest true "Позиция"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /api/shopping [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.shopping.Create"
	log := h.logger(r, op)

	userID, ok := request.Owner(w, r, log)
	if !ok {
		return
	}

	var req models.ShoppingRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	item, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		log.Error("failed to create shopping item", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	log.Info("shopping item created", slog.String("id", item.ID))
	response.OK(w, r, http.StatusCreated, item)
}

// Update godoc
// @Summary Изменить позицию
// @Tags Shopping
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID позиции"
// @Param request body models.ShoppingUpdateRequest true "Изменяемые поля"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /api/shopping/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.shopping.Update"
	log := h.logger(r, op)

	userID, ok := request.Owner(w, r, log)
	if !ok {
		return
	}
	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}

	var req models.ShoppingUpdateRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	item, err := h.service.Update(r.Context(), userID, id, req)
	if err != nil {
		log.Info("failed to update shopping item", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, r, http.StatusOK, item)
}

// Remove godoc
// @Summary Удалить позицию
// @Tags Shopping
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID позиции"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/shopping/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.shopping.Remove"
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
		log.Info("failed to remove shopping item", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, r, http.StatusOK, map[string]string{"message": "Item deleted"})
}

// Summary godoc
// @Summary Стоимость списка покупок
// @Description Общая стоимость, стоимость ожидающих и купленных позиций, остаток бюджета.
// @Tags Shopping
// @Produce json
// @Security BearerAuth
// @Param budget query number false "Бюджет"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.ErrorResponse
// @Router /api/shopping/summary [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.shopping.Summary"
	log := h.logger(r, op)

	userID, ok := request.Owner(w, r, log)
	if !ok {
		return
	}

	var budget *float64
	if raw := r.URL.Query().Get("budget"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
			log.Info("invalid budget", slog.String("budget", raw))
			response.Fail(w, r, http.StatusUnprocessableEntity, response.MsgValidation+": budget must be a non-negative number")
			return
		}
		budget = &value
	}

	summary, err := h.service.Summary(r.Context(), userID, budget)
	if err != nil {
		log.Error("failed to build shopping summary", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, r, http.StatusOK, summary)
}
