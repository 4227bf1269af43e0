package service

import (
	"context"
	"time"

	"github.com/Dhoini/Subscription-dashboard/internal/domain"
	"github.com/Dhoini/Subscription-dashboard/internal/repository"
	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
)

// Горизонт блока "скоро истекают" на дашборде
const upcomingExpiryDays = 30

// DashboardSummary сводка для главной страницы дашборда
type DashboardSummary struct {
	TotalCustomers       int                   `json:"total_customers"`
	TotalPlatforms       int                   `json:"total_platforms"`
	TotalSubscriptions   int                   `json:"total_subscriptions"`
	ActiveSubscriptions  int                   `json:"active_subscriptions"`
	MonthlyCost          float64               `json:"monthly_cost"`
	UnreadNotifications  int                   `json:"unread_notifications"`
	UpcomingExpirations  []domain.Subscription `json:"upcoming_expirations"`
}

// DashboardService интерфейс сервиса сводки дашборда.
// Сводка только читает уже персистентное состояние: уведомления здесь
// никогда не пересчитываются.
type DashboardService interface {
	Summary(ctx context.Context) (DashboardSummary, error)
}

type dashboardService struct {
	subscriptionRepo SubscriptionRepository
	customerRepo     CustomerRepository
	platformRepo     PlatformRepository
	notificationRepo repository.NotificationRepository
	log              *logger.Logger
	now              func() time.Time
}

// NewDashboardService создает новый сервис сводки дашборда
func NewDashboardService(
	subscriptionRepo SubscriptionRepository,
	customerRepo CustomerRepository,
	platformRepo PlatformRepository,
	notificationRepo repository.NotificationRepository,
	log *logger.Logger,
) DashboardService {
	return &dashboardService{
		subscriptionRepo: subscriptionRepo,
		customerRepo:     customerRepo,
		platformRepo:     platformRepo,
		notificationRepo: notificationRepo,
		log:              log,
		now:              time.Now,
	}
}

// Summary собирает сводку дашборда
func (s *dashboardService) Summary(ctx context.Context) (DashboardSummary, error) {
	customers, err := s.customerRepo.GetAll(ctx)
	if err != nil {
		s.log.Error("Failed to get customers for summary: %v", err)
		return DashboardSummary{}, err
	}

	platforms, err := s.platformRepo.GetAll(ctx)
	if err != nil {
		s.log.Error("Failed to get platforms for summary: %v", err)
		return DashboardSummary{}, err
	}

	subscriptions, err := s.subscriptionRepo.GetAll(ctx)
	if err != nil {
		s.log.Error("Failed to get subscriptions for summary: %v", err)
		return DashboardSummary{}, err
	}

	unread, err := s.notificationRepo.CountUnread(ctx)
	if err != nil {
		s.log.Error("Failed to count unread notifications for summary: %v", err)
		return DashboardSummary{}, err
	}

	summary := DashboardSummary{
		TotalCustomers:      len(customers),
		TotalPlatforms:      len(platforms),
		TotalSubscriptions:  len(subscriptions),
		UnreadNotifications: unread,
		UpcomingExpirations: []domain.Subscription{},
	}

	now := s.now()
	horizon := now.AddDate(0, 0, upcomingExpiryDays)

	for _, subscription := range subscriptions {
		if subscription.Status != domain.SubscriptionStatusActive {
			continue
		}

		summary.ActiveSubscriptions++
		summary.MonthlyCost += subscription.Cost

		if subscription.ExpiryDate.After(now) && subscription.ExpiryDate.Before(horizon) {
			summary.UpcomingExpirations = append(summary.UpcomingExpirations, subscription)
		}
	}

	return summary, nil
}
