package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/mudassar003/scholarsync/internal/config"
	"github.com/mudassar003/scholarsync/internal/dispatch"
	"github.com/mudassar003/scholarsync/internal/domain"
	"github.com/mudassar003/scholarsync/internal/handler"
	"github.com/mudassar003/scholarsync/internal/infra/postgresql"
	"github.com/mudassar003/scholarsync/internal/infra/postgresql/migrations"
	infraredis "github.com/mudassar003/scholarsync/internal/infra/redis"
	"github.com/mudassar003/scholarsync/internal/observability"
	"github.com/mudassar003/scholarsync/internal/repository"
	"github.com/mudassar003/scholarsync/internal/service"
	"github.com/mudassar003/scholarsync/internal/transport"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("api exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	db, err := postgresql.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("postgres initialization failed: %w", err)
	}

	if err := migrations.Migrate(db); err != nil {
		return fmt.Errorf("database migrations failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("postgres underlying db init failed: %w", err)
	}
	defer sqlDB.Close()

	rdb, err := infraredis.NewRedis(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis initialization failed: %w", err)
	}
	defer rdb.Close()

	limiter, err := infraredis.NewRedisRateLimiter(rdb, cfg.RateLimitPerSec)
	if err != nil {
		return fmt.Errorf("rate limiter init failed: %w", err)
	}

	professorRepo := repository.NewGormProfessorRepo(db)
	settingsRepo := repository.NewGormSettingsRepo(db)
	historyRepo := repository.NewGormHistoryRepo(db)
	universityRepo := repository.NewGormUniversityRepo(db)
	countryRepo := repository.NewGormCountryRepo(db)
	scholarshipRepo := repository.NewGormScholarshipRepo(db)

	dispatchers := []dispatch.Dispatcher{
		buildDispatcher(domain.ChannelEmail, cfg.WebhookEmailURL, logger),
		buildDispatcher(domain.ChannelSMS, cfg.WebhookSMSURL, logger),
	}

	metrics := observability.NewMetrics()

	reminderSvc, err := service.NewReminderService(professorRepo, settingsRepo, historyRepo, dispatchers, limiter, logger)
	if err != nil {
		return fmt.Errorf("reminder service init failed: %w", err)
	}
	reminderSvc.SetMetrics(metrics)

	professorSvc, err := service.NewProfessorService(professorRepo, settingsRepo, logger)
	if err != nil {
		return fmt.Errorf("professor service init failed: %w", err)
	}

	settingsSvc, err := service.NewSettingsService(settingsRepo, logger)
	if err != nil {
		return fmt.Errorf("settings service init failed: %w", err)
	}

	lookupSvc, err := service.NewLookupService(universityRepo, countryRepo, scholarshipRepo)
	if err != nil {
		return fmt.Errorf("lookup service init failed: %w", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: transport.ErrorHandler(logger),
	})
	app.Use(requestid.New())
	app.Use(transport.CorrelationMiddleware())
	app.Use(metrics.HTTPMiddleware())

	handler.RegisterHealthRoutes(app, sqlDB, rdb)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	if err := handler.RegisterProfessorRoutes(app, professorSvc); err != nil {
		return err
	}
	if err := handler.RegisterSettingsRoutes(app, settingsSvc); err != nil {
		return err
	}
	if err := handler.RegisterLookupRoutes(app, lookupSvc); err != nil {
		return err
	}
	if err := handler.RegisterHistoryRoutes(app, historyRepo); err != nil {
		return err
	}
	if err := handler.RegisterReminderRoutes(app, reminderSvc, cfg.ReminderAPIToken); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("scholarsync api started", zap.Int("port", cfg.APIPort))
		return app.Listen(fmt.Sprintf(":%d", cfg.APIPort))
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down api")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if cfg.SchedulerEnabled {
		scheduler, err := service.NewScheduler(reminderSvc, cfg.SchedulerUserID, cfg.SchedulerInterval, logger)
		if err != nil {
			return fmt.Errorf("scheduler init failed: %w", err)
		}
		g.Go(func() error {
			logger.Info("reminder scheduler started",
				zap.String("userId", cfg.SchedulerUserID),
				zap.Duration("interval", cfg.SchedulerInterval),
			)
			return scheduler.Start(ctx)
		})
	}

	return g.Wait()
}

func buildDispatcher(channel domain.Channel, endpoint string, logger *zap.Logger) dispatch.Dispatcher {
	if endpoint == "" {
		return dispatch.NewLogDispatcher(channel, logger)
	}

	d, err := dispatch.NewWebhookDispatcher(channel, endpoint)
	if err != nil {
		logger.Warn("webhook dispatcher init failed, falling back to log dispatcher",
			zap.String("channel", channel.String()),
			zap.Error(err),
		)
		return dispatch.NewLogDispatcher(channel, logger)
	}
	return d
}
