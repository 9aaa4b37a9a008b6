package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/data/entity"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/data/repository"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/dto/request"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/dto/response"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/pkg/database"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type AppointmentService interface {
	Create(ctx context.Context, req *request.CreateAppointmentRequest) (*response.AppointmentResponse, error)
	Delete(ctx context.Context, appointmentID string) error

	GetByID(ctx context.Context, appointmentID string) (*response.AppointmentResponse, error)
	GetByClient(ctx context.Context, clientID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.AppointmentResponse], error)
	GetCalendar(ctx context.Context, from, to time.Time) ([]response.AppointmentResponse, error)
}

type appointmentService struct {
	repo *repository.Repository
	tx   database.TxRunner
	log  *zap.Logger
}

func NewAppointmentService(repo *repository.Repository, tx database.TxRunner, log *zap.Logger) AppointmentService {
	return &appointmentService{
		repo: repo,
		tx:   tx,
		log:  log.With(zap.String("service", "appointment")),
	}
}

// Create books an appointment. When the booking draws on the client's
// centralized pool, the pool check, the insert and the decrement happen in
// one transaction: an appointment claiming a pooled session is never created
// against an empty pool, and concurrent bookings are serialized by the row
// lock. There is no retry loop here; a conflict surfaces immediately.
func (s *appointmentService) Create(ctx context.Context, req *request.CreateAppointmentRequest) (*response.AppointmentResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create appointment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client ID format %s: %w", req.ClientID, err)
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time %s: %w", req.StartTime, err)
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid end time %s: %w", req.EndTime, err)
	}
	if !endTime.After(startTime) {
		return nil, fmt.Errorf("cannot book appointment ending before it starts")
	}

	if req.IsPackage && req.PackageSessions < 1 {
		return nil, fmt.Errorf("validation failed: package_sessions: package bookings need at least one session")
	}

	now := time.Now()
	appointment := &entity.Appointment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ClientID:             clientID,
		Title:                req.Title,
		StartTime:            startTime,
		EndTime:              endTime,
		Location:             req.Location,
		IsPackage:            req.IsPackage,
		PackageSessions:      req.PackageSessions,
		SessionsPaid:         0,
		Amount:               decimal.NewFromFloat(req.Amount),
		AmountPaid:           decimal.Zero,
		PaymentStatus:        entity.PaymentStatusUnpaid,
		UsedCentralRemaining: req.UsedCentralRemaining,
	}

	err = s.tx.RunInTx(ctx, "create appointment", func(ctx context.Context, q database.Querier) error {
		if req.UsedCentralRemaining {
			remaining, found, err := s.repo.Client.GetRemainingForUpdate(ctx, q, clientID)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("client %s not found", req.ClientID)
			}
			if remaining <= 0 {
				return &InsufficientSessionsError{ClientID: clientID, Remaining: remaining}
			}

			if err := s.repo.Appointment.CreateTx(ctx, q, appointment); err != nil {
				return err
			}
			_, err = s.repo.Client.AdjustRemaining(ctx, q, clientID, -1)
			return err
		}

		// No pool involvement, no client read needed.
		return s.repo.Appointment.CreateTx(ctx, q, appointment)
	})

	if err != nil {
		s.log.Error("Failed to create appointment",
			zap.Error(err),
			zap.String("client_id", req.ClientID),
			zap.Bool("used_central_remaining", req.UsedCentralRemaining),
		)
		return nil, err
	}

	s.log.Info("Appointment created",
		zap.String("appointment_id", appointment.ID.String()),
		zap.String("client_id", req.ClientID),
		zap.Bool("is_package", req.IsPackage),
		zap.Bool("used_central_remaining", req.UsedCentralRemaining),
	)

	appointmentResp := response.AppointmentToResponse(appointment, CalculatePackageProgress(appointment))
	return &appointmentResp, nil
}

// Delete cancels a booking. A session drawn from the centralized pool goes
// back, unless the client row is gone, in which case the session is silently
// lost (logged, not raised).
func (s *appointmentService) Delete(ctx context.Context, appointmentID string) error {
	id, err := uuid.Parse(appointmentID)
	if err != nil {
		return fmt.Errorf("invalid appointment ID format %s: %w", appointmentID, err)
	}

	err = s.tx.RunInTx(ctx, "delete appointment", func(ctx context.Context, q database.Querier) error {
		appointment, err := s.repo.Appointment.FindForUpdate(ctx, q, id)
		if err != nil {
			return err
		}
		if appointment == nil {
			return fmt.Errorf("appointment %s not found", appointmentID)
		}

		if _, err := s.repo.Appointment.DeleteTx(ctx, q, id); err != nil {
			return err
		}

		if appointment.UsedCentralRemaining {
			returned, err := s.repo.Client.AdjustRemaining(ctx, q, appointment.ClientID, 1)
			if err != nil {
				return err
			}
			if !returned {
				s.log.Warn("Client missing on cancel, session not returned",
					zap.String("appointment_id", appointmentID),
					zap.String("client_id", appointment.ClientID.String()),
				)
			}
		}

		return nil
	})

	if err != nil {
		s.log.Error("Failed to delete appointment",
			zap.Error(err),
			zap.String("appointment_id", appointmentID),
		)
		return err
	}

	s.log.Info("Appointment deleted", zap.String("appointment_id", appointmentID))
	return nil
}

func (s *appointmentService) GetByID(ctx context.Context, appointmentID string) (*response.AppointmentResponse, error) {
	id, err := uuid.Parse(appointmentID)
	if err != nil {
		return nil, fmt.Errorf("invalid appointment ID format %s: %w", appointmentID, err)
	}

	appointment, err := s.repo.Appointment.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appointment == nil {
		return nil, fmt.Errorf("appointment %s not found", appointmentID)
	}

	appointmentResp := response.AppointmentToResponse(appointment, CalculatePackageProgress(appointment))
	return &appointmentResp, nil
}

func (s *appointmentService) GetByClient(ctx context.Context, clientID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.AppointmentResponse], error) {
	id, err := uuid.Parse(clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client ID format %s: %w", clientID, err)
	}

	appointments, err := s.repo.Appointment.FindByClientID(ctx, id, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get client appointments: %w", err)
	}

	total, err := s.repo.Appointment.CountByClientID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count client appointments: %w", err)
	}

	appointmentResponses := make([]response.AppointmentResponse, len(appointments))
	for i, appointment := range appointments {
		appointmentResponses[i] = response.AppointmentToResponse(appointment, CalculatePackageProgress(appointment))
	}

	return response.NewPaginatedResponse(appointmentResponses, req.Page, req.PerPage, total), nil
}

func (s *appointmentService) GetCalendar(ctx context.Context, from, to time.Time) ([]response.AppointmentResponse, error) {
	appointments, err := s.repo.Appointment.FindByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("get calendar: %w", err)
	}

	appointmentResponses := make([]response.AppointmentResponse, len(appointments))
	for i, appointment := range appointments {
		appointmentResponses[i] = response.AppointmentToResponse(appointment, CalculatePackageProgress(appointment))
	}

	return appointmentResponses, nil
}
