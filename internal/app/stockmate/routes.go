package stockmate

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	authhandler "github.com/magabrotheeeer/stockmate/internal/http/handlers/auth"
	chatbothandler "github.com/magabrotheeeer/stockmate/internal/http/handlers/chatbot"
	"github.com/magabrotheeeer/stockmate/internal/http/handlers/health"
	inventoryhandler "github.com/magabrotheeeer/stockmate/internal/http/handlers/inventory"
	recipehandler "github.com/magabrotheeeer/stockmate/internal/http/handlers/recipe"
	shoppinghandler "github.com/magabrotheeeer/stockmate/internal/http/handlers/shopping"
	userhandler "github.com/magabrotheeeer/stockmate/internal/http/handlers/user"
	"github.com/magabrotheeeer/stockmate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/stockmate/internal/http/response"
)

// RouteOptions задаёт инфраструктуру маршрутизатора.
type RouteOptions struct {
	Limiter  *middlewarectx.IPRateLimiter
	Registry *prometheus.Registry
	Checks   map[string]health.Checker
	Validate *validator.Validate
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc *Services, opts RouteOptions) {
	metrics := middlewarectx.NewMetrics(opts.Registry)

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		metrics.Middleware,
	)

	auth := authhandler.New(logger, svc.Auth, opts.Validate)
	inventory := inventoryhandler.New(logger, svc.Inventory, opts.Validate)
	shopping := shoppinghandler.New(logger, svc.Shopping, opts.Validate)
	recipes := recipehandler.New(logger, svc.Recipe, opts.Validate)
	users := userhandler.New(logger, svc.User, svc.Auth, opts.Validate)
	chatbot := chatbothandler.New(logger, svc.Chatbot, opts.Validate)
	jwtMiddleware := middlewarectx.JWTMiddleware(svc.Auth, logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Открытые конечные точки
			r.Group(func(r chi.Router) {
				r.Use(opts.Limiter.Middleware(logger))
				r.Post("/signup", auth.Signup)
				r.Post("/login", auth.Login)
			})
			r.With(jwtMiddleware).Post("/logout", auth.Logout)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(jwtMiddleware)

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", inventory.List)
				r.Post("/", inventory.Create)
				r.Get("/alerts", inventory.Alerts)
				r.Put("/{id}", inventory.Update)
				r.Delete("/{id}", inventory.Remove)
			})

			r.Route("/shopping", func(r chi.Router) {
				r.Get("/", shopping.List)
				r.Post("/", shopping.Create)
				r.Get("/summary", shopping.Summary)
				r.Put("/{id}", shopping.Update)
				r.Delete("/{id}", shopping.Remove)
			})

			r.Route("/recipe", func(r chi.Router) {
				r.Get("/", recipes.List)
				r.Post("/", recipes.Create)
				r.Put("/{id}", recipes.Update)
				r.Delete("/{id}", recipes.Remove)
			})

			r.Route("/user/{id}", func(r chi.Router) {
				r.Get("/", users.Get)
				r.Put("/", users.Update)
				r.Delete("/", users.Delete)
				r.Get("/report", users.Report)
				r.Put("/password", users.ChangePassword)
			})

			r.Method(http.MethodPost, "/chatbot", chatbot)
		})
	})

	r.Method(http.MethodGet, "/health", health.New(logger, opts.Checks))
	r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{Registry: opts.Registry}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, r, http.StatusNotFound, response.MsgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})
}
