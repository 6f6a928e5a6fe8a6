// Package health реализует проверку готовности сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/stockmate/internal/http/response"
	"github.com/magabrotheeeer/stockmate/internal/lib/sl"
)

// Checker проверяет доступность зависимости.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckFunc адаптирует функцию к Checker.
type CheckFunc func(ctx context.Context) error

// Check вызывает f.
func (f CheckFunc) Check(ctx context.Context) error {
	return f(ctx)
}

const checkTimeout = 2 * time.Second

// Handler отвечает 200, если все зависимости доступны, иначе 503.
type Handler struct {
	log    *slog.Logger
	checks map[string]Checker
}

// New создает Handler с набором именованных проверок.
func New(log *slog.Logger, checks map[string]Checker) *Handler {
	return &Handler{
		log:    log,
		checks: checks,
	}
}

// ServeHTTP godoc
// @Summary Проверка готовности
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	status := make(map[string]string, len(h.checks))
	healthy := true
	for name, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			h.log.Error("dependency is not ready", slog.String("op", op), slog.String("dependency", name), sl.Err(err))
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "ok"
	}

	if !healthy {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Response{
			Status: response.StatusError,
			Error:  "service unavailable",
			Data:   status,
		})
		return
	}
	response.OK(w, r, http.StatusOK, status)
}
