package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
)

// SyncMetrics интерфейс для метрик проходов генерации уведомлений
type SyncMetrics interface {
	AddNotificationsCreated(notificationType string, count int)
	AddSubscriptionsExpired(count int)
	AddSkippedMissingRefs(count int)
	IncPass(status string)
	ObservePassDuration(seconds float64)
}

type syncMetrics struct {
	log                  *logger.Logger
	notificationsCreated *prometheus.CounterVec
	subscriptionsExpired prometheus.Counter
	skippedMissingRefs   prometheus.Counter
	passes               *prometheus.CounterVec
	passDuration         prometheus.Histogram
}

// NewSyncMetrics создает новые метрики проходов генерации уведомлений
func NewSyncMetrics(registry *prometheus.Registry, log *logger.Logger) SyncMetrics {
	notificationsCreated := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_notifications_created_total",
			Help: "The total number of notifications created by sync passes",
		},
		[]string{"type"},
	)

	subscriptionsExpired := promauto.With(registry).NewCounter(
		prometheus.CounterOpts{
			Name: "sync_subscriptions_expired_total",
			Help: "The total number of subscriptions transitioned to expired",
		},
	)

	skippedMissingRefs := promauto.With(registry).NewCounter(
		prometheus.CounterOpts{
			Name: "sync_skipped_missing_refs_total",
			Help: "The total number of subscriptions skipped due to dangling customer/platform references",
		},
	)

	passes := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_passes_total",
			Help: "The total number of sync passes by outcome",
		},
		[]string{"status"},
	)

	passDuration := promauto.With(registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sync_pass_duration_seconds",
			Help:    "Sync pass duration distribution",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 6), // 10ms .. ~10s
		},
	)

	return &syncMetrics{
		log:                  log,
		notificationsCreated: notificationsCreated,
		subscriptionsExpired: subscriptionsExpired,
		skippedMissingRefs:   skippedMissingRefs,
		passes:               passes,
		passDuration:         passDuration,
	}
}

func (m *syncMetrics) AddNotificationsCreated(notificationType string, count int) {
	m.notificationsCreated.WithLabelValues(notificationType).Add(float64(count))
}

func (m *syncMetrics) AddSubscriptionsExpired(count int) {
	m.subscriptionsExpired.Add(float64(count))
}

func (m *syncMetrics) AddSkippedMissingRefs(count int) {
	m.skippedMissingRefs.Add(float64(count))
}

func (m *syncMetrics) IncPass(status string) {
	m.passes.WithLabelValues(status).Inc()
}

func (m *syncMetrics) ObservePassDuration(seconds float64) {
	m.passDuration.Observe(seconds)
}

// NoOpSyncMetrics заглушка метрик (используется в тестах)
type NoOpSyncMetrics struct{}

func (NoOpSyncMetrics) AddNotificationsCreated(string, int) {}
func (NoOpSyncMetrics) AddSubscriptionsExpired(int)         {}
func (NoOpSyncMetrics) AddSkippedMissingRefs(int)           {}
func (NoOpSyncMetrics) IncPass(string)                      {}
func (NoOpSyncMetrics) ObservePassDuration(float64)         {}
