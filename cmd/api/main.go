package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"

	httptransport "github.com/varnooj/SubsPanel/internal/api/http"
	"github.com/varnooj/SubsPanel/internal/api/http/handlers"
	"github.com/varnooj/SubsPanel/internal/auth"
	"github.com/varnooj/SubsPanel/internal/config"
	"github.com/varnooj/SubsPanel/internal/observability"
	"github.com/varnooj/SubsPanel/internal/persistence"
	"github.com/varnooj/SubsPanel/internal/repository"
	"github.com/varnooj/SubsPanel/internal/service"
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

	subRepo := repository.NewSubscriptionRepository(pg.PoolHandle())
	subService := service.NewSubscriptionService(subRepo)
	deliveryService := service.NewDeliveryService(subRepo)

	codec := auth.NewSessionCodec(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL())
	guard := auth.NewSessionGuard(codec, cfg.Auth.AdminUser)
	cred, err := auth.NewAdminCredential(cfg.Auth.AdminUser, cfg.Auth.AdminPass, cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("failed to prepare admin credential", zap.Error(err))
	}
	limiter := auth.NewLoginLimiter(redis.Client, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindowSecond, logger)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		Views: html.New(cfg.App.ViewsDir, ".html"),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:     handlers.NewAuthHandler(guard, cred, limiter, logger),
		Admin:    handlers.NewAdminHandler(subService, logger),
		Delivery: handlers.NewDeliveryHandler(deliveryService, metrics),
		QR:       handlers.NewQRHandler(),
		Guard:    guard,
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
