package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/data/entity"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AppointmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindByClientID(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*entity.Appointment, error)
	CountByClientID(ctx context.Context, clientID uuid.UUID) (int64, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]*entity.Appointment, error)

	// Ledger methods: these run inside the caller's transaction.
	CreateTx(ctx context.Context, q database.Querier, appointment *entity.Appointment) error
	FindForUpdate(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Appointment, error)
	UpdatePaymentTx(ctx context.Context, q database.Querier, appointment *entity.Appointment) error
	DeleteTx(ctx context.Context, q database.Querier, id uuid.UUID) (bool, error)
}

type appointmentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAppointmentRepository(db database.PgxIface, log *zap.Logger) AppointmentRepository {
	return &appointmentRepository{
		db:  db,
		log: log.With(zap.String("repository", "appointment")),
	}
}

const appointmentColumns = `id, client_id, title, start_time, end_time, location,
	is_package, package_sessions, sessions_paid, amount, amount_paid,
	payment_status, is_package_prepaid, used_central_remaining, created_at, updated_at`

func scanAppointment(row pgx.Row) (*entity.Appointment, error) {
	var a entity.Appointment
	err := row.Scan(
		&a.ID,
		&a.ClientID,
		&a.Title,
		&a.StartTime,
		&a.EndTime,
		&a.Location,
		&a.IsPackage,
		&a.PackageSessions,
		&a.SessionsPaid,
		&a.Amount,
		&a.AmountPaid,
		&a.PaymentStatus,
		&a.IsPackagePrepaid,
		&a.UsedCentralRemaining,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	appointment, err := scanAppointment(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find appointment by ID",
			zap.Error(err),
			zap.String("appointment_id", id.String()),
		)
		return nil, fmt.Errorf("find appointment by ID %s: %w", id.String(), err)
	}

	return appointment, nil
}

func (r *appointmentRepository) FindByClientID(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*entity.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE client_id = $1
		ORDER BY start_time DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, clientID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find appointments by client ID",
			zap.Error(err),
			zap.String("client_id", clientID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find appointments by client ID %s: %w", clientID.String(), err)
	}
	defer rows.Close()

	var appointments []*entity.Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			r.log.Error("Failed to scan appointment row", zap.Error(err))
			return nil, fmt.Errorf("scan appointment row: %w", err)
		}
		appointments = append(appointments, appointment)
	}

	return appointments, nil
}

func (r *appointmentRepository) CountByClientID(ctx context.Context, clientID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM appointments WHERE client_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, clientID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count appointments by client ID",
			zap.Error(err),
			zap.String("client_id", clientID.String()),
		)
		return 0, fmt.Errorf("count appointments by client ID %s: %w", clientID.String(), err)
	}

	return count, nil
}

func (r *appointmentRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]*entity.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE start_time >= $1 AND start_time < $2
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		r.log.Error("Failed to find appointments by date range",
			zap.Error(err),
			zap.Time("from", from),
			zap.Time("to", to),
		)
		return nil, fmt.Errorf("find appointments between %s and %s: %w",
			from.Format("2006-01-02"), to.Format("2006-01-02"), err)
	}
	defer rows.Close()

	var appointments []*entity.Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			r.log.Error("Failed to scan appointment row", zap.Error(err))
			return nil, fmt.Errorf("scan appointment row: %w", err)
		}
		appointments = append(appointments, appointment)
	}

	return appointments, nil
}

func (r *appointmentRepository) CreateTx(ctx context.Context, q database.Querier, appointment *entity.Appointment) error {
	query := `
		INSERT INTO appointments (id, client_id, title, start_time, end_time, location,
			is_package, package_sessions, sessions_paid, amount, amount_paid,
			payment_status, is_package_prepaid, used_central_remaining, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := q.Exec(ctx, query,
		appointment.ID,
		appointment.ClientID,
		appointment.Title,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Location,
		appointment.IsPackage,
		appointment.PackageSessions,
		appointment.SessionsPaid,
		appointment.Amount,
		appointment.AmountPaid,
		appointment.PaymentStatus,
		appointment.IsPackagePrepaid,
		appointment.UsedCentralRemaining,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create appointment",
			zap.Error(err),
			zap.String("appointment_id", appointment.ID.String()),
			zap.String("client_id", appointment.ClientID.String()),
		)
		return fmt.Errorf("create appointment %s: %w", appointment.ID.String(), err)
	}

	return nil
}

// FindForUpdate locks the appointment row for the rest of the transaction.
// Returns nil when the row is gone; the ledger treats that as a benign no-op.
func (r *appointmentRepository) FindForUpdate(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1 FOR UPDATE`

	appointment, err := scanAppointment(q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock appointment",
			zap.Error(err),
			zap.String("appointment_id", id.String()),
		)
		return nil, fmt.Errorf("lock appointment %s: %w", id.String(), err)
	}

	return appointment, nil
}

// UpdatePaymentTx writes only the fields the ledger owns.
func (r *appointmentRepository) UpdatePaymentTx(ctx context.Context, q database.Querier, appointment *entity.Appointment) error {
	query := `
		UPDATE appointments
		SET sessions_paid = $2, amount_paid = $3, payment_status = $4,
		    is_package_prepaid = $5, updated_at = NOW()
		WHERE id = $1
	`

	_, err := q.Exec(ctx, query,
		appointment.ID,
		appointment.SessionsPaid,
		appointment.AmountPaid,
		appointment.PaymentStatus,
		appointment.IsPackagePrepaid,
	)

	if err != nil {
		r.log.Error("Failed to update appointment payment fields",
			zap.Error(err),
			zap.String("appointment_id", appointment.ID.String()),
		)
		return fmt.Errorf("update appointment %s payment fields: %w", appointment.ID.String(), err)
	}

	return nil
}

func (r *appointmentRepository) DeleteTx(ctx context.Context, q database.Querier, id uuid.UUID) (bool, error) {
	query := `DELETE FROM appointments WHERE id = $1`

	result, err := q.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete appointment",
			zap.Error(err),
			zap.String("appointment_id", id.String()),
		)
		return false, fmt.Errorf("delete appointment %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}
