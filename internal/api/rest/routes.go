package rest

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Dhoini/Subscription-dashboard/internal/api/rest/handlers"
	"github.com/Dhoini/Subscription-dashboard/internal/api/rest/middleware"
	"github.com/Dhoini/Subscription-dashboard/internal/config"
	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
)

// Handlers набор обработчиков, подключаемых к роутеру
type Handlers struct {
	Customer     *handlers.CustomerHandler
	Platform     *handlers.PlatformHandler
	Subscription *handlers.SubscriptionHandler
	Notification *handlers.NotificationHandler
	Sync         *handlers.SyncHandler
	Report       *handlers.ReportHandler
	Dashboard    *handlers.DashboardHandler
}

// SetupRouter настраивает маршрутизатор Gin с маршрутами и middleware
func SetupRouter(h Handlers, log *logger.Logger, registry *prometheus.Registry, cfg *config.Config) *gin.Engine {
	r := gin.New()

	// Подключение middleware
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	// Endpoint для проверки работоспособности сервиса
	r.GET("/health", handlers.HealthCheck)

	// Prometheus метрики
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	auth := middleware.NewJWTMiddleware(cfg.Auth.JWTSecret, log)

	v1 := r.Group("/api/v1")
	v1.Use(auth.RequireAuth())
	{
		// Клиенты
		customers := v1.Group("/customers")
		{
			customers.GET("", h.Customer.GetCustomers)
			customers.GET("/:id", h.Customer.GetCustomer)
			customers.GET("/:id/subscriptions", h.Customer.GetCustomerSubscriptions)
			customers.POST("", h.Customer.CreateCustomer)
			customers.PUT("/:id", h.Customer.UpdateCustomer)
			customers.DELETE("/:id", h.Customer.DeleteCustomer)
		}

		// Платформы
		platforms := v1.Group("/platforms")
		{
			platforms.GET("", h.Platform.GetPlatforms)
			platforms.GET("/:id", h.Platform.GetPlatform)
			platforms.POST("", h.Platform.CreatePlatform)
			platforms.PUT("/:id", h.Platform.UpdatePlatform)
			platforms.DELETE("/:id", h.Platform.DeletePlatform)
		}

		// Подписки
		subscriptions := v1.Group("/subscriptions")
		{
			subscriptions.GET("", h.Subscription.GetSubscriptions)
			subscriptions.GET("/:id", h.Subscription.GetSubscription)
			subscriptions.POST("", h.Subscription.CreateSubscription)
			subscriptions.PUT("/:id", h.Subscription.UpdateSubscription)
			subscriptions.DELETE("/:id", h.Subscription.DeleteSubscription)
		}

		// Уведомления
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", h.Notification.GetNotifications)
			notifications.GET("/unread-count", h.Notification.GetUnreadCount)
			notifications.PUT("/:id/read", h.Notification.MarkRead)
			notifications.PUT("/read-all", h.Notification.MarkAllRead)
			notifications.DELETE("/:id", h.Notification.DeleteNotification)
		}

		// Генерация уведомлений
		v1.POST("/sync/notifications", h.Sync.GenerateNotifications)

		// CSV-отчеты
		reports := v1.Group("/reports")
		{
			reports.GET("/subscriptions.csv", h.Report.ExportSubscriptions)
			reports.GET("/customers.csv", h.Report.ExportCustomers)
		}

		// Сводка дашборда
		v1.GET("/dashboard/summary", h.Dashboard.GetSummary)
	}

	return r
}
