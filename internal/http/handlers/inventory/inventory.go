// Package inventory реализует HTTP-обработчики домашних запасов пользователя.
// Все операции выполняются от имени владельца из токена; владелец в теле запроса игнорируется.
package inventory

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

// Service описывает бизнес-логику запасов.
type Service interface {
	List(ctx context.Context, userID string) ([]*models.InventoryItem, error)
	Create(ctx context.Context, userID string, req models.InventoryRequest) (*models.InventoryItem, error)
	Update(ctx context.Context, userID, id string, req models.InventoryUpdateRequest) (*models.InventoryItem, error)
	Remove(ctx context.Context, userID, id string) error
	Alerts(ctx context.Context, userID string) (*models.InventoryAlerts, error)
}

// Handler обрабатывает запросы /api/inventory.
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
// @Summary Список запасов
// @Tags Inventory
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Router /api/inventory [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.inventory.List"
	log := h.logger(r, op)

	userID, ok := request.Owner(w, r, log)
	if !ok {
		return
	}

	items, err := h.service.List(r.Context(), userID)
	if err != nil {
		log.Error("failed to list inventory", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, r, http.StatusOK, items)
}

// Create godoc
// @Summary Добавить продукт в запасы
// @Tags Inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.InventoryRequest true "Продукт"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /api/inventory [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.inventory.Create"
	log := h.logger(r, op)

	userID, ok := request.Owner(w, r, log)
	if !ok {
		return
	}

	var req models.InventoryRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	item, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		log.Error("failed to create inventory item", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	log.Info("inventory item created", slog.String("id", item.ID))
	response.OK(w, r, http.StatusCreated, item)
}

// Update godoc
// @Summary Изменить продукт
// @Tags Inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID продукта"
// @Param request body models.InventoryUpdateRequest true "Изменяемые поля"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /api/inventory/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.inventory.Update"
	log := h.logger(r, op)

	userID, ok := request.Owner(w, r, log)
	if !ok {
		return
	}
	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}

	var req models.InventoryUpdateRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	item, err := h.service.Update(r.Context(), userID, id, req)
	if err != nil {
		log.Info("failed to update inventory item", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, r, http.StatusOK, item)
}

// Remove godoc
// @Summary Удалить продукт
// @Tags Inventory
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID продукта"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/inventory/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.inventory.Remove"
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
		log.Info("failed to remove inventory item", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, r, http.StatusOK, map[string]string{"message": "Item deleted"})
}

// Alerts godoc
// @Summary Заканчивающиеся и скоро просроченные продукты
// @Tags Inventory
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/inventory/alerts [get]
func (h *Handler) Alerts(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.inventory.Alerts"
	log := h.logger(r, op)

	userID, ok := request.Owner(w, r, log)
	if !ok {
		return
	}

	alerts, err := h.service.Alerts(r.Context(), userID)
	if err != nil {
		log.Error("failed to build alerts", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, r, http.StatusOK, alerts)
}
