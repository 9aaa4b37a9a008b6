package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/data/entity"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type RefundRepository interface {
	Create(ctx context.Context, refund *entity.Refund) error
	FindByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]*entity.Refund, error)
	SumByDay(ctx context.Context, day time.Time) (decimal.Decimal, error)
}

type refundRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRefundRepository(db database.PgxIface, log *zap.Logger) RefundRepository {
	return &refundRepository{
		db:  db,
		log: log.With(zap.String("repository", "refund")),
	}
}

// Create inserts the immutable refund record. Refunds never touch the
// originating appointment or the client's session pool.
func (r *refundRepository) Create(ctx context.Context, refund *entity.Refund) error {
	query := `
		INSERT INTO refunds (id, original_payment_id, refund_amount, reason, refund_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`

	_, err := r.db.Exec(ctx, query,
		refund.ID,
		refund.OriginalPaymentID,
		refund.RefundAmount,
		refund.Reason,
		refund.RefundDate,
		refund.Status,
	)

	if err != nil {
		r.log.Error("Failed to create refund",
			zap.Error(err),
			zap.String("refund_id", refund.ID.String()),
			zap.String("original_payment_id", refund.OriginalPaymentID.String()),
		)
		return fmt.Errorf("create refund %s: %w", refund.ID.String(), err)
	}

	return nil
}

func (r *refundRepository) FindByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]*entity.Refund, error) {
	query := `
		SELECT id, original_payment_id, refund_amount, reason, refund_date, status, created_at
		FROM refunds
		WHERE original_payment_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, paymentID)
	if err != nil {
		r.log.Error("Failed to find refunds by payment ID",
			zap.Error(err),
			zap.String("payment_id", paymentID.String()),
		)
		return nil, fmt.Errorf("find refunds by payment ID %s: %w", paymentID.String(), err)
	}
	defer rows.Close()

	var refunds []*entity.Refund
	for rows.Next() {
		var refund entity.Refund
		err := rows.Scan(
			&refund.ID,
			&refund.OriginalPaymentID,
			&refund.RefundAmount,
			&refund.Reason,
			&refund.RefundDate,
			&refund.Status,
			&refund.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan refund row", zap.Error(err))
			return nil, fmt.Errorf("scan refund row: %w", err)
		}
		refunds = append(refunds, &refund)
	}

	return refunds, nil
}

func (r *refundRepository) SumByDay(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(refund_amount), 0) FROM refunds WHERE DATE(created_at) = $1`

	var total decimal.Decimal
	err := r.db.QueryRow(ctx, query, day.Format("2006-01-02")).Scan(&total)
	if err != nil {
		r.log.Error("Failed to sum refunds by day",
			zap.Error(err),
			zap.Time("day", day),
		)
		return decimal.Zero, fmt.Errorf("sum refunds for %s: %w", day.Format("2006-01-02"), err)
	}

	return total, nil
}
