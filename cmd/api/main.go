package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/fixdesk/workorder-service/internal/api/http"
	"github.com/fixdesk/workorder-service/internal/api/http/handlers"
	"github.com/fixdesk/workorder-service/internal/auth"
	"github.com/fixdesk/workorder-service/internal/bootstrap"
	"github.com/fixdesk/workorder-service/internal/cache"
	"github.com/fixdesk/workorder-service/internal/config"
	"github.com/fixdesk/workorder-service/internal/events"
	"github.com/fixdesk/workorder-service/internal/observability"
	"github.com/fixdesk/workorder-service/internal/persistence"
	"github.com/fixdesk/workorder-service/internal/repository"
	"github.com/fixdesk/workorder-service/internal/service"
	"github.com/fixdesk/workorder-service/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	deviceRepo := repository.NewDeviceRepository(pool)
	orderRepo := repository.NewWorkOrderRepository(pool)

	if err := bootstrap.EnsureAdmin(ctx, *cfg, userRepo, logger); err != nil {
		logger.Fatal("failed to seed admin account", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(*cfg, userRepo, logger)
	customerService := service.NewCustomerService(customerRepo, logger)
	deviceService := service.NewDeviceService(deviceRepo, customerRepo, logger)

	orderService := service.NewWorkOrderService(service.WorkOrderDependencies{
		OrderRepo:  orderRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	boardService := service.NewBoardService(service.BoardDependencies{
		OrderRepo:    orderRepo,
		CustomerRepo: customerRepo,
		DeviceRepo:   deviceRepo,
		UserRepo:     userRepo,
		Logger:       logger,
	})
	summaryCache := cache.NewRedisSummaryCache(redis.Client, cfg.Analytics.SummaryCacheTTL(), logger)
	analyticsService := service.NewAnalyticsService(service.AnalyticsDependencies{
		OrderRepo:    orderRepo,
		CustomerRepo: customerRepo,
		DeviceRepo:   deviceRepo,
		UserRepo:     userRepo,
		Cache:        summaryCache,
		Logger:       logger,
	})
	notificationService := service.NewNotificationService(analyticsService, boardService, metrics, logger)

	worker.StartNotificationWorker(dispatcher, notificationService)
	worker.StartHistoryRefresher(ctx, boardService, 5*time.Minute, logger)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Customers:      handlers.NewCustomersHandler(customerService, deviceService),
		Devices:        handlers.NewDevicesHandler(deviceService),
		WorkOrders:     handlers.NewWorkOrdersHandler(orderService, boardService),
		Analytics:      handlers.NewAnalyticsHandler(analyticsService, boardService),
		AuthMiddleware: authMiddleware,
		MetricsHandler: metrics.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
