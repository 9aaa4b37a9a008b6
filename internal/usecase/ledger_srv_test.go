package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/data/entity"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/dto/request"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLedgerService(s *memStore, retries int) LedgerService {
	config := &utils.Config{Ledger: utils.LedgerConfig{PaymentRetries: retries}}
	return NewLedgerService(s.repos(), &memTx{s: s}, config, zap.NewNop())
}

func seedClient(s *memStore, remaining int) *entity.Client {
	client := &entity.Client{
		Base:              entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Name:              "Test Client",
		RemainingSessions: remaining,
	}
	s.clients[client.ID] = client
	return client
}

func seedAppointment(s *memStore, clientID uuid.UUID, mutate func(*entity.Appointment)) *entity.Appointment {
	now := time.Now()
	appointment := &entity.Appointment{
		Base:          entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		ClientID:      clientID,
		Title:         "Session",
		StartTime:     now.Add(24 * time.Hour),
		EndTime:       now.Add(25 * time.Hour),
		Amount:        decimal.NewFromInt(100),
		AmountPaid:    decimal.Zero,
		PaymentStatus: entity.PaymentStatusUnpaid,
	}
	if mutate != nil {
		mutate(appointment)
	}
	s.appointments[appointment.ID] = appointment
	return appointment
}

func strPtr(s string) *string {
	return &s
}

func intPtr(n int) *int {
	return &n
}

func paymentReq(appointment *entity.Appointment, client *entity.Client, amount float64) *request.RecordPaymentRequest {
	req := &request.RecordPaymentRequest{
		Amount:        amount,
		PaymentMethod: "cash",
		SessionDate:   "2026-03-01",
	}
	if appointment != nil {
		req.AppointmentID = strPtr(appointment.ID.String())
	}
	if client != nil {
		req.ClientID = strPtr(client.ID.String())
	}
	return req
}

func TestRecordPaymentFullMarksPaid(t *testing.T) {
	store := newMemStore()
	client := seedClient(store, 0)
	appointment := seedAppointment(store, client.ID, nil)
	svc := newLedgerService(store, 2)

	resp, err := svc.RecordPayment(context.Background(), paymentReq(appointment, client, 100))
	require.NoError(t, err)
	require.Equal(t, entity.PaymentStatusPaid, resp.PaymentStatus)
	require.NotEmpty(t, resp.ReceiptNumber)

	got := store.appointments[appointment.ID]
	require.Equal(t, entity.PaymentStatusPaid, got.PaymentStatus)
	require.Equal(t, 1, got.SessionsPaid)
	require.True(t, got.AmountPaid.Equal(decimal.NewFromInt(100)))
	require.Len(t, store.payments, 1)
	require.Equal(t, 0, client.RemainingSessions)
}

func TestRecordPaymentPartialAccumulates(t *testing.T) {
	store := newMemStore()
	client := seedClient(store, 0)
	appointment := seedAppointment(store, client.ID, nil)
	svc := newLedgerService(store, 2)

	req := paymentReq(appointment, client, 30)
	req.IsPartial = true
	_, err := svc.RecordPayment(context.Background(), req)
	require.NoError(t, err)

	req = paymentReq(appointment, client, 20)
	req.IsPartial = true
	resp, err := svc.RecordPayment(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, entity.PaymentStatusPartial, resp.PaymentStatus)

	got := store.appointments[appointment.ID]
	require.True(t, got.AmountPaid.Equal(decimal.NewFromInt(50)), "partial payments must accumulate, got %s", got.AmountPaid)
	require.Equal(t, entity.PaymentStatusPartial, got.PaymentStatus)
	require.Len(t, store.payments, 2)
}

func TestRecordPaymentPackagePrepaidCreditsPool(t *testing.T) {
	store := newMemStore()
	client := seedClient(store, 0)
	appointment := seedAppointment(store, client.ID, func(a *entity.Appointment) {
		a.IsPackage = true
		a.PackageSessions = 4
		a.Amount = decimal.NewFromInt(400)
	})
	svc := newLedgerService(store, 2)

	req := paymentReq(appointment, client, 400)
	req.IsPackage = true
	req.IsPrepayment = true
	resp, err := svc.RecordPayment(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, entity.PaymentStatusPaid, resp.PaymentStatus)

	got := store.appointments[appointment.ID]
	require.Equal(t, 4, got.SessionsPaid)
	require.True(t, got.IsPackagePrepaid)
	require.Equal(t, entity.PaymentStatusPaid, got.PaymentStatus)

	// The purchase consumes one session; the other three go to the pool.
	require.Equal(t, 3, store.clients[client.ID].RemainingSessions)
}

func TestRecordPaymentPackageSessionProgress(t *testing.T) {
	store := newMemStore()
	client := seedClient(store, 2)
	appointment := seedAppointment(store, client.ID, func(a *entity.Appointment) {
		a.IsPackage = true
		a.PackageSessions = 4
		a.Amount = decimal.NewFromInt(400)
	})
	svc := newLedgerService(store, 2)

	req := paymentReq(appointment, client, 100)
	req.IsPackage = true
	req.SessionsPaid = intPtr(3)
	resp, err := svc.RecordPayment(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, entity.PaymentStatusPaid, resp.PaymentStatus) // the payment itself is settled

	got := store.appointments[appointment.ID]
	require.Equal(t, 3, got.SessionsPaid)
	require.Equal(t, entity.PaymentStatusPartial, got.PaymentStatus)
	require.Equal(t, 1, store.clients[client.ID].RemainingSessions)

	// Crossing the threshold flips the appointment to paid.
	req = paymentReq(appointment, client, 100)
	req.IsPackage = true
	req.SessionsPaid = intPtr(4)
	_, err = svc.RecordPayment(context.Background(), req)
	require.NoError(t, err)

	got = store.appointments[appointment.ID]
	require.Equal(t, 4, got.SessionsPaid)
	require.Equal(t, entity.PaymentStatusPaid, got.PaymentStatus)
	require.Equal(t, 0, store.clients[client.ID].RemainingSessions)
}

func TestRecordPaymentPackageSessionEmptyPool(t *testing.T) {
	store := newMemStore()
	client := seedClient(store, 0)
	appointment := seedAppointment(store, client.ID, func(a *entity.Appointment) {
		a.IsPackage = true
		a.PackageSessions = 4
	})
	svc := newLedgerService(store, 2)

	req := paymentReq(appointment, client, 100)
	req.IsPackage = true
	_, err := svc.RecordPayment(context.Background(), req)
	require.NoError(t, err)

	// An empty pool is never driven negative by a package session payment.
	require.Equal(t, 0, store.clients[client.ID].RemainingSessions)
}

func TestRecordPaymentNegativeAmount(t *testing.T) {
	store := newMemStore()
	client := seedClient(store, 1)
	appointment := seedAppointment(store, client.ID, nil)
	svc := newLedgerService(store, 2)

	_, err := svc.RecordPayment(context.Background(), paymentReq(appointment, client, -50))
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Equal(t, "amount", vErr.Field)

	// Nothing was written.
	require.Empty(t, store.payments)
	require.Equal(t, entity.PaymentStatusUnpaid, store.appointments[appointment.ID].PaymentStatus)
	require.Equal(t, 1, store.clients[client.ID].RemainingSessions)
}

func TestRecordPaymentZeroAmountAccepted(t *testing.T) {
	store := newMemStore()
	client := seedClient(store, 0)
	appointment := seedAppointment(store, client.ID, nil)
	svc := newLedgerService(store, 2)

	resp, err := svc.RecordPayment(context.Background(), paymentReq(appointment, client, 0))
	require.NoError(t, err)
	require.Equal(t, float64(0), resp.Amount)
	require.Len(t, store.payments, 1)
}

func TestRecordPaymentMissingAppointmentIsNoOp(t *testing.T) {
	store := newMemStore()
	svc := newLedgerService(store, 2)

	req := &request.RecordPaymentRequest{
		AppointmentID: strPtr(uuid.New().String()),
		Amount:        100,
		PaymentMethod: "cash",
		SessionDate:   "2026-03-01",
	}
	resp, err := svc.RecordPayment(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp)

	// The payment record still lands; no appointment is touched.
	require.Len(t, store.payments, 1)
	require.Empty(t, store.appointments)
}

func TestRecordPaymentTransientExhaustion(t *testing.T) {
	store := newMemStore()
	client := seedClient(store, 0)
	appointment := seedAppointment(store, client.ID, nil)
	store.paymentCreateErr = &pgconn.PgError{Code: "40001"}
	svc := newLedgerService(store, 2)

	_, err := svc.RecordPayment(context.Background(), paymentReq(appointment, client, 100))
	require.Error(t, err)

	var pErr *PaymentProcessingError
	require.True(t, errors.As(err, &pErr))
	require.Equal(t, 3, pErr.Attempts)
	require.Equal(t, 3, store.paymentCreateCalls)

	// Every attempt rolled back.
	require.Empty(t, store.payments)
	require.Equal(t, entity.PaymentStatusUnpaid, store.appointments[appointment.ID].PaymentStatus)
}

func TestRefundPaymentLeavesLedgerUntouched(t *testing.T) {
	store := newMemStore()
	client := seedClient(store, 3)
	appointment := seedAppointment(store, client.ID, func(a *entity.Appointment) {
		a.PaymentStatus = entity.PaymentStatusPaid
		a.AmountPaid = decimal.NewFromInt(100)
		a.SessionsPaid = 1
	})
	payment := &entity.Payment{
		BaseSimple:    entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		ReceiptNumber: "RCPT-TEST",
		AppointmentID: &appointment.ID,
		ClientID:      &client.ID,
		Amount:        decimal.NewFromInt(100),
		PaymentMethod: "cash",
		PaymentStatus: entity.PaymentStatusPaid,
		SessionDate:   time.Now(),
	}
	store.payments[payment.ID] = payment
	svc := newLedgerService(store, 2)

	resp, err := svc.RefundPayment(context.Background(), &request.RefundPaymentRequest{
		OriginalPaymentID: payment.ID.String(),
		RefundAmount:      100,
		Reason:            "client request",
	})
	require.NoError(t, err)
	require.Equal(t, entity.RefundStatusCompleted, resp.Status)
	require.Len(t, store.refunds, 1)

	// The refund is a standalone record: original payment, appointment and
	// session pool stay exactly as they were.
	got := store.appointments[appointment.ID]
	require.Equal(t, entity.PaymentStatusPaid, got.PaymentStatus)
	require.True(t, got.AmountPaid.Equal(decimal.NewFromInt(100)))
	require.Equal(t, 1, got.SessionsPaid)
	require.Equal(t, 3, store.clients[client.ID].RemainingSessions)

	refunds, err := svc.GetRefundsByPayment(context.Background(), payment.ID.String())
	require.NoError(t, err)
	require.Len(t, refunds, 1)
	require.Equal(t, payment.ID.String(), refunds[0].OriginalPaymentID)
}

func TestRefundPaymentMissingPayment(t *testing.T) {
	store := newMemStore()
	svc := newLedgerService(store, 2)

	_, err := svc.RefundPayment(context.Background(), &request.RefundPaymentRequest{
		OriginalPaymentID: uuid.New().String(),
		RefundAmount:      50,
		Reason:            "client request",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
	require.Empty(t, store.refunds)
}

func TestCalculatePackageProgress(t *testing.T) {
	require.Equal(t, float64(100), CalculatePackageProgress(nil))

	single := &entity.Appointment{IsPackage: false}
	require.Equal(t, float64(100), CalculatePackageProgress(single))

	zeroSessions := &entity.Appointment{IsPackage: true, PackageSessions: 0}
	require.Equal(t, float64(100), CalculatePackageProgress(zeroSessions))

	half := &entity.Appointment{IsPackage: true, PackageSessions: 4, SessionsPaid: 2}
	require.Equal(t, float64(50), CalculatePackageProgress(half))

	over := &entity.Appointment{IsPackage: true, PackageSessions: 4, SessionsPaid: 6}
	require.Equal(t, float64(100), CalculatePackageProgress(over))
}

func TestValidatePaymentAmount(t *testing.T) {
	pack := &entity.Appointment{
		IsPackage:       true,
		PackageSessions: 4,
		Amount:          decimal.NewFromInt(400),
	}

	require.NoError(t, ValidatePaymentAmount(100, pack))
	require.NoError(t, ValidatePaymentAmount(0, pack))
	require.NoError(t, ValidatePaymentAmount(150, nil))

	var vErr *ValidationError
	err := ValidatePaymentAmount(-1, pack)
	require.True(t, errors.As(err, &vErr))

	err = ValidatePaymentAmount(math.NaN(), pack)
	require.True(t, errors.As(err, &vErr))

	err = ValidatePaymentAmount(math.Inf(1), nil)
	require.True(t, errors.As(err, &vErr))

	// A single payment may not exceed one session's share of the package.
	err = ValidatePaymentAmount(101, pack)
	require.True(t, errors.As(err, &vErr))
	require.Contains(t, vErr.Message, "per-session")
}

func TestCheckPaymentAmount(t *testing.T) {
	store := newMemStore()
	client := seedClient(store, 0)
	appointment := seedAppointment(store, client.ID, func(a *entity.Appointment) {
		a.IsPackage = true
		a.PackageSessions = 4
		a.Amount = decimal.NewFromInt(400)
	})
	svc := newLedgerService(store, 2)

	require.NoError(t, svc.CheckPaymentAmount(context.Background(), appointment.ID.String(), 100))
	require.Error(t, svc.CheckPaymentAmount(context.Background(), appointment.ID.String(), 101))

	err := svc.CheckPaymentAmount(context.Background(), uuid.New().String(), 100)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}
