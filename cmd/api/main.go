package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/room-reservation/internal/api/http"
	"github.com/spec-kit/room-reservation/internal/api/http/handlers"
	"github.com/spec-kit/room-reservation/internal/auth"
	"github.com/spec-kit/room-reservation/internal/config"
	"github.com/spec-kit/room-reservation/internal/events"
	"github.com/spec-kit/room-reservation/internal/notification"
	"github.com/spec-kit/room-reservation/internal/observability"
	"github.com/spec-kit/room-reservation/internal/persistence"
	"github.com/spec-kit/room-reservation/internal/repository"
	"github.com/spec-kit/room-reservation/internal/service"
	"github.com/spec-kit/room-reservation/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	stores := repository.NewStores(pool)
	txManager := repository.NewTxManager(pool)
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	queue := notification.NewRedisQueue(redis.Client, cfg.Notification.QueueKey, logger)
	notificationService := service.NewNotificationService(dispatcher, stores, queue, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AccountRepo: stores.Accounts,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	if err := authService.BootstrapAdmin(ctx, cfg.Bootstrap); err != nil {
		logger.Fatal("failed to bootstrap administrator", zap.Error(err))
	}

	roomService := service.NewRoomService(stores.Rooms, logger)
	reservationService := service.NewReservationService(service.ReservationDependencies{
		TxManager:  txManager,
		Stores:     stores,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
		Booking:    cfg.Booking,
		Location:   cfg.App.Location(),
	})
	adminService := service.NewAdminService(stores)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), stores.Accounts)

	var workers sync.WaitGroup
	if cfg.Notification.WorkerEnabled {
		emailWorker := worker.NewEmailWorker(queue, notification.NewLogMailer(logger), logger)
		workers.Add(1)
		go func() {
			defer workers.Done()
			emailWorker.Run(ctx)
		}()
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version,
			handlers.Dependency{Name: "postgres", Pinger: pg},
			handlers.Dependency{Name: "redis", Pinger: redis},
		),
		Auth:           handlers.NewAuthHandler(authService),
		Rooms:          handlers.NewRoomsHandler(roomService),
		Reservations:   handlers.NewReservationsHandler(reservationService, roomService),
		Admin:          handlers.NewAdminHandler(adminService, authService, reservationService),
		AuthMiddleware: authMiddleware,
		AuthLimiter:    httptransport.NewIPRateLimiter(cfg.Auth.LoginPerMinute, cfg.Auth.LoginBurst, 10*time.Minute),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	cancel()
	workers.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
