// Package storefront собирает HTTP-приложение магазина: подключения к базе,
// кешу и брокеру, бизнес-сервисы, маршруты и жизненный цикл сервера.
package storefront

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/velotech/storefront/internal/cache"
	"github.com/velotech/storefront/internal/config"
	"github.com/velotech/storefront/internal/lib/jwt"
	librabbitmq "github.com/velotech/storefront/internal/lib/rabbitmq"
	"github.com/velotech/storefront/internal/lib/sl"
	"github.com/velotech/storefront/internal/llm"
	"github.com/velotech/storefront/internal/migrations"
	"github.com/velotech/storefront/internal/rabbitmq"
	authservice "github.com/velotech/storefront/internal/services/auth"
	cartservice "github.com/velotech/storefront/internal/services/cart"
	chatservice "github.com/velotech/storefront/internal/services/chat"
	orderservice "github.com/velotech/storefront/internal/services/order"
	productservice "github.com/velotech/storefront/internal/services/product"
	"github.com/velotech/storefront/internal/storage/repository"
)

type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	amqpConn *amqp.Connection
	amqpCh   *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, jwtMaker)
	productService := productservice.NewProductService(db, cacheRedis, logger)
	cartService := cartservice.NewCartService(db, db, cacheRedis, logger)

	// Заказ остаётся валидным и без брокера, поэтому недоступный RabbitMQ
	// отключает только письма-подтверждения.
	var publisher orderservice.EventPublisher
	var amqpConn *amqp.Connection
	var amqpCh *amqp.Channel
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		logger.Warn("rabbitmq unavailable, order events disabled", sl.Err(err))
	} else {
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetOrderQueues())
		if err != nil {
			logger.Warn("failed to setup rabbitmq channel, order events disabled", sl.Err(err))
			_ = conn.Close()
		} else {
			publisher = librabbitmq.NewPublisher(ch, "orders")
			amqpConn = conn
			amqpCh = ch
		}
	}

	orderService := orderservice.NewOrderService(db, cacheRedis, publisher, logger)

	llmClient := llm.NewClient(cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	chatService := chatservice.NewChatService(db, productService, llmClient, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, authService, productService, cartService, orderService, chatService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		amqpConn: amqpConn,
		amqpCh:   amqpCh,
	}, nil
}

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

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.amqpCh != nil {
			_ = a.amqpCh.Close()
		}
		if a.amqpConn != nil {
			_ = a.amqpConn.Close()
		}
		a.db.DB.Close()
		return err
	}
}
