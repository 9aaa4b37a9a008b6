package usecase

import (
	"context"
	"fmt"
	"math"
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

type LedgerService interface {
	RecordPayment(ctx context.Context, req *request.RecordPaymentRequest) (*response.PaymentResponse, error)
	RefundPayment(ctx context.Context, req *request.RefundPaymentRequest) (*response.RefundResponse, error)

	GetPaymentByID(ctx context.Context, paymentID string) (*response.PaymentResponse, error)
	GetPaymentsByClient(ctx context.Context, clientID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PaymentResponse], error)
	GetPaymentsByAppointment(ctx context.Context, appointmentID string) ([]response.PaymentResponse, error)
	GetRefundsByPayment(ctx context.Context, paymentID string) ([]response.RefundResponse, error)
	CheckPaymentAmount(ctx context.Context, appointmentID string, amount float64) error
}

// paymentKind is the tagged variant behind the request's flag combination.
type paymentKind int

const (
	paymentFull paymentKind = iota
	paymentPartial
	paymentPackagePrepaid
	paymentPackageSession
)

func classifyPayment(isPackage, isPrepayment, isPartial bool) paymentKind {
	switch {
	case isPartial:
		return paymentPartial
	case isPackage && isPrepayment:
		return paymentPackagePrepaid
	case isPackage:
		return paymentPackageSession
	default:
		return paymentFull
	}
}

type ledgerService struct {
	repo    *repository.Repository
	tx      database.TxRunner
	retries int
	log     *zap.Logger
}

func NewLedgerService(repo *repository.Repository, tx database.TxRunner, config *utils.Config, log *zap.Logger) LedgerService {
	return &ledgerService{
		repo:    repo,
		tx:      tx,
		retries: config.Ledger.PaymentRetries,
		log:     log.With(zap.String("service", "ledger")),
	}
}

// RecordPayment persists an immutable payment record and, in the same
// transaction, brings the appointment's sessions_paid/amount_paid/status and
// the client's remaining_sessions pool in line with the payment variant.
// The transaction reads every row it needs (with row locks) before writing.
func (s *ledgerService) RecordPayment(ctx context.Context, req *request.RecordPaymentRequest) (*response.PaymentResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Record payment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return nil, &ValidationError{Field: "amount", Message: "is not a number"}
	}
	amount := decimal.NewFromFloat(req.Amount)
	if amount.IsNegative() {
		return nil, &ValidationError{Field: "amount", Message: "must not be negative"}
	}
	if amount.IsZero() {
		// Accepted, but worth a trace in the day-close audit.
		s.log.Warn("Zero amount payment recorded",
			zap.Any("appointment_id", req.AppointmentID),
			zap.Any("client_id", req.ClientID),
		)
	}

	// session_date format is enforced by the struct validator
	sessionDate, err := time.Parse("2006-01-02", req.SessionDate)
	if err != nil {
		return nil, fmt.Errorf("invalid session date %s: %w", req.SessionDate, err)
	}

	var appointmentID, clientID *uuid.UUID
	if req.AppointmentID != nil {
		id, err := uuid.Parse(*req.AppointmentID)
		if err != nil {
			return nil, fmt.Errorf("invalid appointment ID format %s: %w", *req.AppointmentID, err)
		}
		appointmentID = &id
	}
	if req.ClientID != nil {
		id, err := uuid.Parse(*req.ClientID)
		if err != nil {
			return nil, fmt.Errorf("invalid client ID format %s: %w", *req.ClientID, err)
		}
		clientID = &id
	}

	kind := classifyPayment(req.IsPackage, req.IsPrepayment, req.IsPartial)

	paymentStatus := entity.PaymentStatusPaid
	if kind == paymentPartial {
		paymentStatus = entity.PaymentStatusPartial
	}

	payment := &entity.Payment{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		ReceiptNumber: utils.GenerateReceiptNumber(),
		AppointmentID: appointmentID,
		ClientID:      clientID,
		Amount:        amount,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: paymentStatus,
		IsPackage:     req.IsPackage,
		IsPrepayment:  req.IsPrepayment,
		IsPartial:     req.IsPartial,
		SessionDate:   sessionDate,
		Location:      req.Location,
	}

	err = s.tx.RunInTxWithRetry(ctx, "record payment", s.retries, func(ctx context.Context, q database.Querier) error {
		// Read phase: lock the appointment and client rows first.
		var appointment *entity.Appointment
		if appointmentID != nil {
			appointment, err = s.repo.Appointment.FindForUpdate(ctx, q, *appointmentID)
			if err != nil {
				return err
			}
			if appointment == nil {
				// Benign no-op: the appointment vanished under us. Recorded
				// here because it can also mask a delete/payment race.
				s.log.Warn("Payment references missing appointment",
					zap.String("appointment_id", appointmentID.String()),
					zap.String("receipt_number", payment.ReceiptNumber),
				)
			}
		}

		remaining := 0
		clientFound := false
		if clientID != nil {
			remaining, clientFound, err = s.repo.Client.GetRemainingForUpdate(ctx, q, *clientID)
			if err != nil {
				return err
			}
			if !clientFound {
				s.log.Warn("Payment references missing client",
					zap.String("client_id", clientID.String()),
					zap.String("receipt_number", payment.ReceiptNumber),
				)
			}
		}

		// Write phase.
		if err := s.repo.Payment.CreateTx(ctx, q, payment); err != nil {
			return err
		}

		if appointment != nil {
			applyPaymentToAppointment(appointment, kind, amount, req.PackageSessions, req.SessionsPaid)
			if err := s.repo.Appointment.UpdatePaymentTx(ctx, q, appointment); err != nil {
				return err
			}
		}

		if clientFound {
			switch kind {
			case paymentPackagePrepaid:
				// The purchase consumes one session immediately; the rest of
				// the package lands in the centralized pool.
				credit := packageSessionsFor(appointment, req.PackageSessions) - 1
				if credit > 0 {
					if _, err := s.repo.Client.AdjustRemaining(ctx, q, *clientID, credit); err != nil {
						return err
					}
				}
			case paymentPackageSession:
				// Defensive sync: a session paid individually that had been
				// drawn from the pool.
				if remaining > 0 {
					if _, err := s.repo.Client.AdjustRemaining(ctx, q, *clientID, -1); err != nil {
						return err
					}
				}
			}
		}

		return nil
	})

	if err != nil {
		if database.IsTransient(err) {
			err = &PaymentProcessingError{Attempts: s.retries + 1, Err: err}
		}
		s.log.Error("Failed to record payment",
			zap.Error(err),
			zap.String("receipt_number", payment.ReceiptNumber),
			zap.String("payment_method", req.PaymentMethod),
		)
		return nil, err
	}

	s.log.Info("Payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("receipt_number", payment.ReceiptNumber),
		zap.String("payment_method", req.PaymentMethod),
		zap.Float64("amount", req.Amount),
		zap.Bool("is_package", req.IsPackage),
		zap.Bool("is_prepayment", req.IsPrepayment),
		zap.Bool("is_partial", req.IsPartial),
	)

	paymentResp := response.PaymentToResponse(payment)
	return &paymentResp, nil
}

// applyPaymentToAppointment mutates the in-memory appointment per the payment
// variant. The caller persists the result inside the same transaction that
// read it.
func applyPaymentToAppointment(a *entity.Appointment, kind paymentKind, amount decimal.Decimal, packageSessions, sessionsPaid *int) {
	switch kind {
	case paymentPartial:
		a.AmountPaid = a.AmountPaid.Add(amount)
		a.PaymentStatus = entity.PaymentStatusPartial

	case paymentPackagePrepaid:
		a.AmountPaid = amount
		a.SessionsPaid = packageSessionsFor(a, packageSessions)
		if sessionsPaid != nil {
			a.SessionsPaid = *sessionsPaid
		}
		a.IsPackagePrepaid = true
		a.PaymentStatus = entity.PaymentStatusPaid

	case paymentPackageSession:
		a.AmountPaid = amount
		a.SessionsPaid = 1
		if sessionsPaid != nil {
			a.SessionsPaid = *sessionsPaid
		}
		if a.SessionsPaid >= packageSessionsFor(a, packageSessions) {
			a.PaymentStatus = entity.PaymentStatusPaid
		} else {
			a.PaymentStatus = entity.PaymentStatusPartial
		}

	default:
		a.AmountPaid = amount
		a.SessionsPaid = 1
		a.PaymentStatus = entity.PaymentStatusPaid
	}
}

func packageSessionsFor(a *entity.Appointment, override *int) int {
	if override != nil {
		return *override
	}
	if a != nil {
		return a.PackageSessions
	}
	return 0
}

// RefundPayment creates the immutable refund record. It deliberately leaves
// the originating appointment's amount_paid/sessions_paid and the client's
// remaining_sessions untouched.
func (s *ledgerService) RefundPayment(ctx context.Context, req *request.RefundPaymentRequest) (*response.RefundResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Refund payment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	paymentID, err := uuid.Parse(req.OriginalPaymentID)
	if err != nil {
		return nil, fmt.Errorf("invalid payment ID format %s: %w", req.OriginalPaymentID, err)
	}

	payment, err := s.repo.Payment.FindByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("find payment for refund: %w", err)
	}
	if payment == nil {
		return nil, fmt.Errorf("payment %s not found", req.OriginalPaymentID)
	}

	refundDate := time.Now()
	if req.RefundDate != "" {
		refundDate, err = time.Parse("2006-01-02", req.RefundDate)
		if err != nil {
			return nil, fmt.Errorf("invalid refund date %s: %w", req.RefundDate, err)
		}
	}

	refund := &entity.Refund{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		OriginalPaymentID: paymentID,
		RefundAmount:      decimal.NewFromFloat(req.RefundAmount),
		Reason:            req.Reason,
		RefundDate:        refundDate,
		Status:            entity.RefundStatusCompleted,
	}

	if err := s.repo.Refund.Create(ctx, refund); err != nil {
		s.log.Error("Failed to create refund",
			zap.Error(err),
			zap.String("original_payment_id", req.OriginalPaymentID),
		)
		return nil, fmt.Errorf("create refund: %w", err)
	}

	s.log.Info("Refund recorded",
		zap.String("refund_id", refund.ID.String()),
		zap.String("original_payment_id", req.OriginalPaymentID),
		zap.Float64("refund_amount", req.RefundAmount),
	)

	refundResp := response.RefundToResponse(refund)
	return &refundResp, nil
}

func (s *ledgerService) GetPaymentByID(ctx context.Context, paymentID string) (*response.PaymentResponse, error) {
	id, err := uuid.Parse(paymentID)
	if err != nil {
		return nil, fmt.Errorf("invalid payment ID format %s: %w", paymentID, err)
	}

	payment, err := s.repo.Payment.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	if payment == nil {
		return nil, fmt.Errorf("payment %s not found", paymentID)
	}

	paymentResp := response.PaymentToResponse(payment)
	return &paymentResp, nil
}

func (s *ledgerService) GetPaymentsByClient(ctx context.Context, clientID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PaymentResponse], error) {
	id, err := uuid.Parse(clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client ID format %s: %w", clientID, err)
	}

	payments, err := s.repo.Payment.FindByClientID(ctx, id, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get client payments: %w", err)
	}

	total, err := s.repo.Payment.CountByClientID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count client payments: %w", err)
	}

	paymentResponses := make([]response.PaymentResponse, len(payments))
	for i, payment := range payments {
		paymentResponses[i] = response.PaymentToResponse(payment)
	}

	return response.NewPaginatedResponse(paymentResponses, req.Page, req.PerPage, total), nil
}

func (s *ledgerService) GetPaymentsByAppointment(ctx context.Context, appointmentID string) ([]response.PaymentResponse, error) {
	id, err := uuid.Parse(appointmentID)
	if err != nil {
		return nil, fmt.Errorf("invalid appointment ID format %s: %w", appointmentID, err)
	}

	payments, err := s.repo.Payment.FindByAppointmentID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment payments: %w", err)
	}

	paymentResponses := make([]response.PaymentResponse, len(payments))
	for i, payment := range payments {
		paymentResponses[i] = response.PaymentToResponse(payment)
	}

	return paymentResponses, nil
}

func (s *ledgerService) GetRefundsByPayment(ctx context.Context, paymentID string) ([]response.RefundResponse, error) {
	id, err := uuid.Parse(paymentID)
	if err != nil {
		return nil, fmt.Errorf("invalid payment ID format %s: %w", paymentID, err)
	}

	refunds, err := s.repo.Refund.FindByPaymentID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get payment refunds: %w", err)
	}

	refundResponses := make([]response.RefundResponse, len(refunds))
	for i, refund := range refunds {
		refundResponses[i] = response.RefundToResponse(refund)
	}

	return refundResponses, nil
}

// CheckPaymentAmount runs ValidatePaymentAmount against a stored appointment,
// so the booking UI can pre-check an amount before submitting it.
func (s *ledgerService) CheckPaymentAmount(ctx context.Context, appointmentID string, amount float64) error {
	id, err := uuid.Parse(appointmentID)
	if err != nil {
		return fmt.Errorf("invalid appointment ID format %s: %w", appointmentID, err)
	}

	appointment, err := s.repo.Appointment.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get appointment: %w", err)
	}
	if appointment == nil {
		return fmt.Errorf("appointment %s not found", appointmentID)
	}

	return ValidatePaymentAmount(amount, appointment)
}

// ==================== PURE QUERIES ====================

// CalculatePackageProgress returns the percentage of a package's sessions
// already paid for. A non-package appointment is always complete.
func CalculatePackageProgress(a *entity.Appointment) float64 {
	if a == nil || !a.IsPackage || a.PackageSessions <= 0 {
		return 100
	}

	progress := float64(a.SessionsPaid) / float64(a.PackageSessions) * 100
	if progress > 100 {
		return 100
	}
	return progress
}

// ValidatePaymentAmount rejects negative or NaN amounts and, for package
// appointments, caps a single payment at one session's worth of the package
// price.
func ValidatePaymentAmount(amount float64, a *entity.Appointment) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return &ValidationError{Field: "amount", Message: "is not a number"}
	}
	if amount < 0 {
		return &ValidationError{Field: "amount", Message: "must not be negative"}
	}

	if a != nil && a.IsPackage && a.PackageSessions > 0 {
		perSession := a.Amount.Div(decimal.NewFromInt(int64(a.PackageSessions)))
		if decimal.NewFromFloat(amount).GreaterThan(perSession) {
			return &ValidationError{
				Field:   "amount",
				Message: fmt.Sprintf("exceeds per-session price %s", perSession.StringFixed(2)),
			}
		}
	}

	return nil
}
