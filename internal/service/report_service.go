package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/Dhoini/Subscription-dashboard/internal/domain"
	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
	"github.com/google/uuid"
)

// Формат дат в CSV-отчетах
const reportDateLayout = "2006-01-02"

// ReportService интерфейс сервиса CSV-отчетов
type ReportService interface {
	SubscriptionsCSV(ctx context.Context) ([]byte, error)
	CustomersCSV(ctx context.Context) ([]byte, error)
}

type reportService struct {
	subscriptionRepo SubscriptionRepository
	customerRepo     CustomerRepository
	platformRepo     PlatformRepository
	log              *logger.Logger
}

// NewReportService создает новый сервис отчетов
func NewReportService(
	subscriptionRepo SubscriptionRepository,
	customerRepo CustomerRepository,
	platformRepo PlatformRepository,
	log *logger.Logger,
) ReportService {
	return &reportService{
		subscriptionRepo: subscriptionRepo,
		customerRepo:     customerRepo,
		platformRepo:     platformRepo,
		log:              log,
	}
}

// SubscriptionsCSV формирует CSV-отчет по подпискам
func (s *reportService) SubscriptionsCSV(ctx context.Context) ([]byte, error) {
	subscriptions, err := s.subscriptionRepo.GetAll(ctx)
	if err != nil {
		s.log.Error("Failed to get subscriptions for report: %v", err)
		return nil, err
	}

	customers, err := s.customerRepo.GetAll(ctx)
	if err != nil {
		s.log.Error("Failed to get customers for report: %v", err)
		return nil, err
	}

	platforms, err := s.platformRepo.GetAll(ctx)
	if err != nil {
		s.log.Error("Failed to get platforms for report: %v", err)
		return nil, err
	}

	customerNames := make(map[uuid.UUID]string, len(customers))
	for _, customer := range customers {
		customerNames[customer.ID] = customer.Name
	}

	platformNames := make(map[uuid.UUID]string, len(platforms))
	for _, platform := range platforms {
		platformNames[platform.ID] = platform.Name
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"Customer", "Platform", "Type", "Start Date", "Expiry Date", "Cost", "Status", "Notes"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write report header: %w", err)
	}

	for _, subscription := range subscriptions {
		customerName, ok := customerNames[subscription.CustomerID]
		if !ok {
			customerName = "Unknown"
		}
		platformName, ok := platformNames[subscription.PlatformID]
		if !ok {
			platformName = "Unknown"
		}

		row := []string{
			customerName,
			platformName,
			subscription.Type,
			subscription.StartDate.Format(reportDateLayout),
			subscription.ExpiryDate.Format(reportDateLayout),
			strconv.FormatFloat(subscription.Cost, 'f', 2, 64),
			string(subscription.Status),
			subscription.Notes,
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write report row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush report: %w", err)
	}

	s.log.Info("Generated subscriptions report: %d rows", len(subscriptions))
	return buf.Bytes(), nil
}

// CustomersCSV формирует CSV-отчет по клиентам с числом активных подписок
func (s *reportService) CustomersCSV(ctx context.Context) ([]byte, error) {
	customers, err := s.customerRepo.GetAll(ctx)
	if err != nil {
		s.log.Error("Failed to get customers for report: %v", err)
		return nil, err
	}

	subscriptions, err := s.subscriptionRepo.GetAll(ctx)
	if err != nil {
		s.log.Error("Failed to get subscriptions for report: %v", err)
		return nil, err
	}

	activeCounts := make(map[uuid.UUID]int)
	for _, subscription := range subscriptions {
		if subscription.Status == domain.SubscriptionStatusActive {
			activeCounts[subscription.CustomerID]++
		}
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"Name", "Email", "Phone", "Address", "Active Subscriptions"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write report header: %w", err)
	}

	for _, customer := range customers {
		row := []string{
			customer.Name,
			customer.Email,
			customer.Phone,
			customer.Address,
			strconv.Itoa(activeCounts[customer.ID]),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write report row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush report: %w", err)
	}

	s.log.Info("Generated customers report: %d rows", len(customers))
	return buf.Bytes(), nil
}
