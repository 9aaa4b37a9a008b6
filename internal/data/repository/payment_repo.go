package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/data/entity"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MethodTotal is one row of the day-close breakdown.
type MethodTotal struct {
	PaymentMethod string
	Count         int64
	Total         decimal.Decimal
}

// DayTotals aggregates one day's collected revenue.
type DayTotals struct {
	Total        decimal.Decimal
	PackageTotal decimal.Decimal
	SingleTotal  decimal.Decimal
	Count        int64
}

type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) ([]*entity.Payment, error)
	FindByClientID(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*entity.Payment, error)
	CountByClientID(ctx context.Context, clientID uuid.UUID) (int64, error)

	// Day-close reconciliation queries
	SummarizeByMethod(ctx context.Context, day time.Time) ([]MethodTotal, error)
	GetDayTotals(ctx context.Context, day time.Time) (*DayTotals, error)

	// Ledger method: runs inside the caller's transaction.
	CreateTx(ctx context.Context, q database.Querier, payment *entity.Payment) error
}

type paymentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentRepository(db database.PgxIface, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

const paymentColumns = `id, receipt_number, appointment_id, client_id, amount, payment_method,
	payment_status, is_package, is_prepayment, is_partial, session_date, location, created_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(
		&p.ID,
		&p.ReceiptNumber,
		&p.AppointmentID,
		&p.ClientID,
		&p.Amount,
		&p.PaymentMethod,
		&p.PaymentStatus,
		&p.IsPackage,
		&p.IsPrepayment,
		&p.IsPartial,
		&p.SessionDate,
		&p.Location,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateTx inserts the immutable payment record. There is no update or
// delete counterpart on purpose.
func (r *paymentRepository) CreateTx(ctx context.Context, q database.Querier, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, receipt_number, appointment_id, client_id, amount, payment_method,
			payment_status, is_package, is_prepayment, is_partial, session_date, location, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
	`

	_, err := q.Exec(ctx, query,
		payment.ID,
		payment.ReceiptNumber,
		payment.AppointmentID,
		payment.ClientID,
		payment.Amount,
		payment.PaymentMethod,
		payment.PaymentStatus,
		payment.IsPackage,
		payment.IsPrepayment,
		payment.IsPartial,
		payment.SessionDate,
		payment.Location,
	)

	if err != nil {
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("payment_id", payment.ID.String()),
			zap.String("receipt_number", payment.ReceiptNumber),
		)
		return fmt.Errorf("create payment %s: %w", payment.ReceiptNumber, err)
	}

	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by ID",
			zap.Error(err),
			zap.String("payment_id", id.String()),
		)
		return nil, fmt.Errorf("find payment by ID %s: %w", id.String(), err)
	}

	return payment, nil
}

func (r *paymentRepository) FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) ([]*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE appointment_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, appointmentID)
	if err != nil {
		r.log.Error("Failed to find payments by appointment ID",
			zap.Error(err),
			zap.String("appointment_id", appointmentID.String()),
		)
		return nil, fmt.Errorf("find payments by appointment ID %s: %w", appointmentID.String(), err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			r.log.Error("Failed to scan payment row", zap.Error(err))
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, payment)
	}

	return payments, nil
}

func (r *paymentRepository) FindByClientID(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE client_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, clientID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find payments by client ID",
			zap.Error(err),
			zap.String("client_id", clientID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find payments by client ID %s: %w", clientID.String(), err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			r.log.Error("Failed to scan payment row", zap.Error(err))
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, payment)
	}

	return payments, nil
}

func (r *paymentRepository) CountByClientID(ctx context.Context, clientID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM payments WHERE client_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, clientID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count payments by client ID",
			zap.Error(err),
			zap.String("client_id", clientID.String()),
		)
		return 0, fmt.Errorf("count payments by client ID %s: %w", clientID.String(), err)
	}

	return count, nil
}

func (r *paymentRepository) SummarizeByMethod(ctx context.Context, day time.Time) ([]MethodTotal, error) {
	query := `
		SELECT payment_method, COUNT(*), COALESCE(SUM(amount), 0)
		FROM payments
		WHERE DATE(created_at) = $1
		GROUP BY payment_method
		ORDER BY payment_method
	`

	rows, err := r.db.Query(ctx, query, day.Format("2006-01-02"))
	if err != nil {
		r.log.Error("Failed to summarize payments by method",
			zap.Error(err),
			zap.Time("day", day),
		)
		return nil, fmt.Errorf("summarize payments for %s: %w", day.Format("2006-01-02"), err)
	}
	defer rows.Close()

	var totals []MethodTotal
	for rows.Next() {
		var mt MethodTotal
		if err := rows.Scan(&mt.PaymentMethod, &mt.Count, &mt.Total); err != nil {
			r.log.Error("Failed to scan method total row", zap.Error(err))
			return nil, fmt.Errorf("scan method total row: %w", err)
		}
		totals = append(totals, mt)
	}

	return totals, nil
}

func (r *paymentRepository) GetDayTotals(ctx context.Context, day time.Time) (*DayTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(amount), 0),
			COALESCE(SUM(amount) FILTER (WHERE is_package), 0),
			COALESCE(SUM(amount) FILTER (WHERE NOT is_package), 0),
			COUNT(*)
		FROM payments
		WHERE DATE(created_at) = $1
	`

	var totals DayTotals
	err := r.db.QueryRow(ctx, query, day.Format("2006-01-02")).Scan(
		&totals.Total,
		&totals.PackageTotal,
		&totals.SingleTotal,
		&totals.Count,
	)
	if err != nil {
		r.log.Error("Failed to get day totals",
			zap.Error(err),
			zap.Time("day", day),
		)
		return nil, fmt.Errorf("get day totals for %s: %w", day.Format("2006-01-02"), err)
	}

	return &totals, nil
}
