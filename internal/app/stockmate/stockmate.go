// Package stockmate собирает HTTP-сервис StockMate: хранилище, кеш, брокер событий,
// сервисы и маршруты, и управляет его жизненным циклом.
package stockmate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/stockmate/internal/cache"
	"github.com/magabrotheeeer/stockmate/internal/config"
	"github.com/magabrotheeeer/stockmate/internal/http/handlers/health"
	"github.com/magabrotheeeer/stockmate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/stockmate/internal/lib/jwt"
	"github.com/magabrotheeeer/stockmate/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/stockmate/internal/lib/sl"
	"github.com/magabrotheeeer/stockmate/internal/lib/validation"
	"github.com/magabrotheeeer/stockmate/internal/migrations"
	authservice "github.com/magabrotheeeer/stockmate/internal/services/auth"
	chatbotservice "github.com/magabrotheeeer/stockmate/internal/services/chatbot"
	inventoryservice "github.com/magabrotheeeer/stockmate/internal/services/inventory"
	recipeservice "github.com/magabrotheeeer/stockmate/internal/services/recipe"
	shoppingservice "github.com/magabrotheeeer/stockmate/internal/services/shopping"
	userservice "github.com/magabrotheeeer/stockmate/internal/services/user"
	"github.com/magabrotheeeer/stockmate/internal/storage/repository"
)

const (
	shutdownTimeout = 15 * time.Second
	limiterIdle     = 10 * time.Minute
)

// Repository объединяет контракты хранилища всех сервисов.
type Repository interface {
	authservice.UserRepository
	userservice.Repository
	inventoryservice.Repository
	shoppingservice.Repository
	recipeservice.Repository
}

// Publisher публикует события аккаунта.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
	Close() error
}

// Services содержит бизнес-логику, доступную обработчикам.
type Services struct {
	Auth      *authservice.Service
	Inventory *inventoryservice.Service
	Shopping  *shoppingservice.Service
	Recipe    *recipeservice.Service
	User      *userservice.Service
	Chatbot   *chatbotservice.Service
}

// NewServices связывает сервисы с хранилищем, кешем и брокером.
func NewServices(repo Repository, redis *cache.Cache, jwtMaker jwt.Maker, events Publisher,
	listTTL time.Duration, logger *slog.Logger) *Services {
	auth := authservice.NewService(repo, jwtMaker, redis, events, logger)
	return &Services{
		Auth:      auth,
		Inventory: inventoryservice.NewService(repo, redis, listTTL, logger),
		Shopping:  shoppingservice.NewService(repo, redis, listTTL, logger),
		Recipe:    recipeservice.NewService(repo, redis, listTTL, logger),
		User: userservice.NewService(repo, auth, redis, events, logger,
			inventoryservice.CacheKey, shoppingservice.CacheKey, recipeservice.CacheKey),
		Chatbot: chatbotservice.NewService(),
	}
}

// App представляет HTTP-сервис StockMate.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *repository.Storage
	cache     *cache.Cache
	publisher Publisher
	amqpConn  *amqp.Connection
}

// New поднимает зависимости и собирает маршрутизатор.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var (
		publisher Publisher = rabbitmq.NopPublisher{}
		conn      *amqp.Connection
	)
	if cfg.RabbitMQURL != "" {
		conn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			_ = cacheRedis.Close()
			_ = db.Close()
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
		if err != nil {
			_ = conn.Close()
			_ = cacheRedis.Close()
			_ = db.Close()
			return nil, err
		}
		publisher = rabbitmq.NewPublisher(ch)
	} else {
		logger.Warn("rabbitmq url is empty, account events are not published")
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	services := NewServices(db, cacheRedis, jwtMaker, publisher, cfg.ListCacheTTL, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, services, RouteOptions{
		Limiter:  middlewarectx.NewIPRateLimiter(cfg.RequestsPerSecond, cfg.Burst, limiterIdle),
		Registry: registry,
		Checks: map[string]health.Checker{
			"postgres": health.CheckFunc(db.CheckDatabaseReady),
			"redis":    health.CheckFunc(cacheRedis.Ping),
		},
		Validate: validation.New(),
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:    srv,
		logger:    logger,
		db:        db,
		cache:     cacheRedis,
		publisher: publisher,
		amqpConn:  conn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}
	a.close()
	return err
}

func (a *App) close() {
	if err := a.publisher.Close(); err != nil {
		a.logger.Error("failed to close publisher", sl.Err(err))
	}
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Error("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
