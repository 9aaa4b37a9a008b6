package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/data/repository"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/dto/response"

	"go.uber.org/zap"
)

// ReportService backs the day-close screen: what came in today, through
// which methods, and what went back out as refunds.
type ReportService interface {
	DailyRevenue(ctx context.Context, day time.Time) (*response.DailyRevenueResponse, error)
}

type reportService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReportService(repo *repository.Repository, log *zap.Logger) ReportService {
	return &reportService{
		repo: repo,
		log:  log.With(zap.String("service", "report")),
	}
}

func (s *reportService) DailyRevenue(ctx context.Context, day time.Time) (*response.DailyRevenueResponse, error) {
	totals, err := s.repo.Payment.GetDayTotals(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("daily revenue totals: %w", err)
	}

	methods, err := s.repo.Payment.SummarizeByMethod(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("daily revenue by method: %w", err)
	}

	refundTotal, err := s.repo.Refund.SumByDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("daily refund total: %w", err)
	}

	methodResponses := make([]response.MethodTotalResponse, len(methods))
	for i, mt := range methods {
		methodResponses[i] = response.MethodTotalResponse{
			PaymentMethod: mt.PaymentMethod,
			Count:         mt.Count,
			Total:         mt.Total.InexactFloat64(),
		}
	}

	report := &response.DailyRevenueResponse{
		Date:           day.Format("2006-01-02"),
		TotalCollected: totals.Total.InexactFloat64(),
		PaymentCount:   totals.Count,
		PackageRevenue: totals.PackageTotal.InexactFloat64(),
		SingleRevenue:  totals.SingleTotal.InexactFloat64(),
		ByMethod:       methodResponses,
		RefundTotal:    refundTotal.InexactFloat64(),
		NetRevenue:     totals.Total.Sub(refundTotal).InexactFloat64(),
	}

	s.log.Info("Daily revenue report built",
		zap.String("date", report.Date),
		zap.Int64("payment_count", report.PaymentCount),
		zap.Float64("total_collected", report.TotalCollected),
		zap.Float64("refund_total", report.RefundTotal),
	)

	return report, nil
}
