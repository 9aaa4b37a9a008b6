package repository

import (
	"context"
	"fmt"

	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/data/entity"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Client, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Client, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, client *entity.Client) error

	// Ledger methods: these run inside the caller's transaction and take the
	// open transaction as Querier.
	GetRemainingForUpdate(ctx context.Context, q database.Querier, id uuid.UUID) (int, bool, error)
	AdjustRemaining(ctx context.Context, q database.Querier, id uuid.UUID, delta int) (bool, error)
}

type clientRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewClientRepository(db database.PgxIface, log *zap.Logger) ClientRepository {
	return &clientRepository{
		db:  db,
		log: log.With(zap.String("repository", "client")),
	}
}

func (r *clientRepository) Create(ctx context.Context, client *entity.Client) error {
	query := `
		INSERT INTO clients (id, name, phone_number, notes, remaining_sessions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		client.ID,
		client.Name,
		client.PhoneNumber,
		client.Notes,
		client.RemainingSessions,
		client.CreatedAt,
		client.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create client",
			zap.Error(err),
			zap.String("client_id", client.ID.String()),
		)
		return fmt.Errorf("create client %s: %w", client.ID.String(), err)
	}

	return nil
}

func (r *clientRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	query := `
		SELECT id, name, phone_number, notes, remaining_sessions, created_at, updated_at
		FROM clients
		WHERE id = $1
	`

	var client entity.Client
	err := r.db.QueryRow(ctx, query, id).Scan(
		&client.ID,
		&client.Name,
		&client.PhoneNumber,
		&client.Notes,
		&client.RemainingSessions,
		&client.CreatedAt,
		&client.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find client by ID",
			zap.Error(err),
			zap.String("client_id", id.String()),
		)
		return nil, fmt.Errorf("find client by ID %s: %w", id.String(), err)
	}

	return &client, nil
}

func (r *clientRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Client, error) {
	query := `
		SELECT id, name, phone_number, notes, remaining_sessions, created_at, updated_at
		FROM clients
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find clients",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find clients: %w", err)
	}
	defer rows.Close()

	var clients []*entity.Client
	for rows.Next() {
		var client entity.Client
		err := rows.Scan(
			&client.ID,
			&client.Name,
			&client.PhoneNumber,
			&client.Notes,
			&client.RemainingSessions,
			&client.CreatedAt,
			&client.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan client row", zap.Error(err))
			return nil, fmt.Errorf("scan client row: %w", err)
		}
		clients = append(clients, &client)
	}

	return clients, nil
}

func (r *clientRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM clients`

	var count int64
	err := r.db.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count clients", zap.Error(err))
		return 0, fmt.Errorf("count clients: %w", err)
	}

	return count, nil
}

func (r *clientRepository) Update(ctx context.Context, client *entity.Client) error {
	query := `
		UPDATE clients
		SET name = $2, phone_number = $3, notes = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		client.ID,
		client.Name,
		client.PhoneNumber,
		client.Notes,
		client.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update client",
			zap.Error(err),
			zap.String("client_id", client.ID.String()),
		)
		return fmt.Errorf("update client %s: %w", client.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("client %s not found", client.ID.String())
	}

	return nil
}

// GetRemainingForUpdate reads the client's session pool with a row lock so
// concurrent ledger transactions against the same client are serialized by
// the database. Returns found=false when the client row no longer exists.
func (r *clientRepository) GetRemainingForUpdate(ctx context.Context, q database.Querier, id uuid.UUID) (int, bool, error) {
	query := `SELECT remaining_sessions FROM clients WHERE id = $1 FOR UPDATE`

	var remaining int
	err := q.QueryRow(ctx, query, id).Scan(&remaining)

	if err == pgx.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		r.log.Error("Failed to read remaining sessions",
			zap.Error(err),
			zap.String("client_id", id.String()),
		)
		return 0, false, fmt.Errorf("read remaining sessions for client %s: %w", id.String(), err)
	}

	return remaining, true, nil
}

// AdjustRemaining shifts the session pool by delta. The caller must hold the
// row lock from GetRemainingForUpdate and guarantee the result stays >= 0.
func (r *clientRepository) AdjustRemaining(ctx context.Context, q database.Querier, id uuid.UUID, delta int) (bool, error) {
	query := `UPDATE clients SET remaining_sessions = remaining_sessions + $2, updated_at = NOW() WHERE id = $1`

	result, err := q.Exec(ctx, query, id, delta)
	if err != nil {
		r.log.Error("Failed to adjust remaining sessions",
			zap.Error(err),
			zap.String("client_id", id.String()),
			zap.Int("delta", delta),
		)
		return false, fmt.Errorf("adjust remaining sessions for client %s by %d: %w", id.String(), delta, err)
	}

	return result.RowsAffected() > 0, nil
}
