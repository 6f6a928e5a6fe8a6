// Package chatbot реализует HTTP-обработчик имитации чат-бота.
package chatbot

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/stockmate/internal/http/request"
	"github.com/magabrotheeeer/stockmate/internal/http/response"
)

// Request: сообщение пользователя.
type Request struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// Reply: ответ чат-бота.
type Reply struct {
	Response string `json:"response"`
}

// Service формирует ответ на сообщение.
type Service interface {
	Reply(ctx context.Context, message string) string
}

// Handler обрабатывает POST /api/chatbot.
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

// ServeHTTP godoc
// @Summary Сообщение чат-боту
// @Tags Chatbot
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Сообщение"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.ErrorResponse
// @Router /api/chatbot [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chatbot"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	response.OK(w, r, http.StatusOK, Reply{Response: h.service.Reply(r.Context(), req.Message)})
}
