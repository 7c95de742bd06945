package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/minishop/minishop/internal/core/domain"
	"github.com/minishop/minishop/internal/port"
)

// ReportService aggregates historical purchases. Read-only, no locking
// beyond normal read consistency.
type ReportService struct {
	purchases port.PurchaseRepository
	log       logrus.FieldLogger
}

func NewReportService(purchases port.PurchaseRepository, log logrus.FieldLogger) *ReportService {
	return &ReportService{purchases: purchases, log: log}
}

// SalesReport returns sale records matching the filter, newest first.
func (s *ReportService) SalesReport(ctx context.Context, filter domain.ReportFilter) ([]domain.SaleRecord, error) {
	return s.purchases.SalesReport(ctx, filter)
}
