package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Dhoini/Subscription-dashboard/internal/api/rest"
	"github.com/Dhoini/Subscription-dashboard/internal/api/rest/handlers"
	"github.com/Dhoini/Subscription-dashboard/internal/config"
	"github.com/Dhoini/Subscription-dashboard/internal/kafka"
	"github.com/Dhoini/Subscription-dashboard/internal/metrics"
	"github.com/Dhoini/Subscription-dashboard/internal/notifier"
	"github.com/Dhoini/Subscription-dashboard/internal/repository"
	"github.com/Dhoini/Subscription-dashboard/internal/repository/postgres"
	"github.com/Dhoini/Subscription-dashboard/internal/scheduler"
	"github.com/Dhoini/Subscription-dashboard/internal/service"
	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализируем логгер
	log := initLogger()

	log.Infow("Subscription dashboard service starting up...")

	// Загружаем конфигурацию
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		log.Fatalw("Failed to load configuration", "error", err)
	}

	// Устанавливаем режим Gin в зависимости от окружения
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Подключаемся к базе данных
	pool, err := postgres.NewConnection(ctx, cfg.Database.DSN, log)
	if err != nil {
		log.Fatalw("Failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Infow("Database connection established")

	// Накатываем миграции
	if err := postgres.Migrate(ctx, pool, cfg.Database.MigrationsPath, log); err != nil {
		log.Fatalw("Failed to apply migrations", "error", err)
	}

	// Инициализируем репозитории
	customerRepo := repository.NewPostgresCustomerRepository(pool, log)
	platformRepo := repository.NewPostgresPlatformRepository(pool, log)
	subscriptionRepo := repository.NewPostgresSubscriptionRepository(pool, log)
	baseNotificationRepo := repository.NewPostgresNotificationRepository(pool, log)

	// Инициализируем Redis кеш
	var notificationRepo repository.NotificationRepository = baseNotificationRepo
	redisCache, err := repository.NewRedisCacheRepository(
		cfg.Redis.Addr,
		cfg.Redis.Password,
		cfg.Redis.DB,
		log,
	)
	if err != nil {
		// Не фатально, но предупреждаем
		log.Warnw("Failed to initialize Redis cache, continuing without caching", "error", err)
	} else {
		log.Infow("Redis cache initialized successfully")
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Errorw("Error closing Redis connection", "error", err)
			}
		}()
		notificationRepo = repository.NewCachedNotificationRepository(baseNotificationRepo, redisCache, log)
	}

	// Инициализируем Kafka Producer
	var producer kafka.Producer = kafka.NoOpProducer{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err := kafka.NewKafkaProducer(cfg.Kafka.Brokers, log)
		if err != nil {
			log.Errorw("Failed to initialize Kafka producer, continuing without event publishing", "error", err)
		} else {
			log.Infow("Kafka producer initialized")
			defer func() {
				if err := kafkaProducer.Close(); err != nil {
					log.Errorw("Error closing Kafka producer", "error", err)
				}
			}()
			producer = kafkaProducer
		}
	} else {
		log.Warnw("Kafka brokers are not configured, event publishing is disabled")
	}

	// Prometheus метрики
	registry := prometheus.NewRegistry()
	syncMetrics := metrics.NewSyncMetrics(registry, log)

	// Инициализируем service layer
	engineCfg := notifier.Config{
		ExpiringSoonDays:  cfg.Notifier.ExpiringSoonDays,
		ExpiredWindowDays: cfg.Notifier.ExpiredWindowDays,
	}

	customerService := service.NewCustomerService(customerRepo, subscriptionRepo, log)
	platformService := service.NewPlatformService(platformRepo, subscriptionRepo, log)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, customerRepo, platformRepo, log)
	notificationService := service.NewNotificationService(notificationRepo, log)
	syncService := service.NewSyncService(subscriptionRepo, customerRepo, platformRepo, notificationRepo, engineCfg, producer, syncMetrics, log)
	reportService := service.NewReportService(subscriptionRepo, customerRepo, platformRepo, log)
	dashboardService := service.NewDashboardService(subscriptionRepo, customerRepo, platformRepo, notificationRepo, log)

	// Инициализируем обработчики и роутер
	router := rest.SetupRouter(rest.Handlers{
		Customer:     handlers.NewCustomerHandler(customerService, subscriptionService, log),
		Platform:     handlers.NewPlatformHandler(platformService, log),
		Subscription: handlers.NewSubscriptionHandler(subscriptionService, log),
		Notification: handlers.NewNotificationHandler(notificationService, log),
		Sync:         handlers.NewSyncHandler(syncService, log),
		Report:       handlers.NewReportHandler(reportService, log),
		Dashboard:    handlers.NewDashboardHandler(dashboardService, log),
	}, log, registry, cfg)

	server := rest.NewServer(router, cfg, log)

	// Запускаем HTTP сервер в горутине
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalw("Failed to start HTTP server", "error", err)
		}
	}()

	// Фоновая генерация уведомлений по расписанию
	cronScheduler := scheduler.New(syncService, log)
	if err := cronScheduler.Start(cfg.Notifier.Schedule); err != nil {
		log.Fatalw("Failed to start notification scheduler", "error", err)
	}

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infow("Shutdown signal received")

	// Останавливаем планировщик до сервера, чтобы не оборвать активный проход
	cronScheduler.Stop()

	// Даем 10 секунд на завершение текущих запросов
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown error", "error", err)
	} else {
		log.Infow("HTTP server gracefully stopped")
	}

	log.Infow("Cleanup finished. Goodbye!")
}

// initLogger инициализирует новый логгер
func initLogger() *logger.Logger {
	logLevel := logger.INFO
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = logger.DEBUG
	}
	return logger.New(logLevel)
}
