package usecase

// In-memory repository stubs backing the service tests. A single mutex
// serializes transactions the way row locks do on the real pool, and a
// snapshot taken at transaction start is restored on error so rollback
// semantics hold.

import (
	"context"
	"sync"
	"time"

	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/data/entity"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/data/repository"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type memStore struct {
	mu           sync.Mutex
	clients      map[uuid.UUID]*entity.Client
	appointments map[uuid.UUID]*entity.Appointment
	payments     map[uuid.UUID]*entity.Payment
	refunds      map[uuid.UUID]*entity.Refund

	// paymentCreateErr, when set, is returned by every payment insert.
	paymentCreateErr   error
	paymentCreateCalls int
}

func newMemStore() *memStore {
	return &memStore{
		clients:      make(map[uuid.UUID]*entity.Client),
		appointments: make(map[uuid.UUID]*entity.Appointment),
		payments:     make(map[uuid.UUID]*entity.Payment),
		refunds:      make(map[uuid.UUID]*entity.Refund),
	}
}

func (s *memStore) repos() *repository.Repository {
	return &repository.Repository{
		Client:      &memClientRepo{s: s},
		Appointment: &memAppointmentRepo{s: s},
		Payment:     &memPaymentRepo{s: s},
		Refund:      &memRefundRepo{s: s},
	}
}

type storeSnapshot struct {
	clients      map[uuid.UUID]*entity.Client
	appointments map[uuid.UUID]*entity.Appointment
	payments     map[uuid.UUID]*entity.Payment
	refunds      map[uuid.UUID]*entity.Refund
}

func (s *memStore) snapshot() storeSnapshot {
	snap := storeSnapshot{
		clients:      make(map[uuid.UUID]*entity.Client, len(s.clients)),
		appointments: make(map[uuid.UUID]*entity.Appointment, len(s.appointments)),
		payments:     make(map[uuid.UUID]*entity.Payment, len(s.payments)),
		refunds:      make(map[uuid.UUID]*entity.Refund, len(s.refunds)),
	}
	for k, v := range s.clients {
		c := *v
		snap.clients[k] = &c
	}
	for k, v := range s.appointments {
		a := *v
		snap.appointments[k] = &a
	}
	for k, v := range s.payments {
		p := *v
		snap.payments[k] = &p
	}
	for k, v := range s.refunds {
		r := *v
		snap.refunds[k] = &r
	}
	return snap
}

func (s *memStore) restore(snap storeSnapshot) {
	s.clients = snap.clients
	s.appointments = snap.appointments
	s.payments = snap.payments
	s.refunds = snap.refunds
}

// memTx serializes transactions on the store mutex and rolls the store back
// to its pre-transaction state on error.
type memTx struct {
	s *memStore
}

func (t *memTx) RunInTx(ctx context.Context, name string, fn database.TxFunc) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	snap := t.s.snapshot()
	if err := fn(ctx, nil); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

func (t *memTx) RunInTxWithRetry(ctx context.Context, name string, maxRetries int, fn database.TxFunc) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = t.RunInTx(ctx, name, fn)
		if lastErr == nil || !database.IsTransient(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

// ==================== CLIENT ====================

type memClientRepo struct {
	s *memStore
}

func (r *memClientRepo) Create(ctx context.Context, client *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *client
	r.s.clients[client.ID] = &c
	return nil
}

func (r *memClientRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memClientRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Client, 0, len(r.s.clients))
	for _, c := range r.s.clients {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memClientRepo) Count(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.clients)), nil
}

func (r *memClientRepo) Update(ctx context.Context, client *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[client.ID]; !ok {
		return nil
	}
	c := *client
	r.s.clients[client.ID] = &c
	return nil
}

func (r *memClientRepo) GetRemainingForUpdate(ctx context.Context, q database.Querier, id uuid.UUID) (int, bool, error) {
	c, ok := r.s.clients[id]
	if !ok {
		return 0, false, nil
	}
	return c.RemainingSessions, true, nil
}

func (r *memClientRepo) AdjustRemaining(ctx context.Context, q database.Querier, id uuid.UUID, delta int) (bool, error) {
	c, ok := r.s.clients[id]
	if !ok {
		return false, nil
	}
	c.RemainingSessions += delta
	return true, nil
}

// ==================== APPOINTMENT ====================

type memAppointmentRepo struct {
	s *memStore
}

func (r *memAppointmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *memAppointmentRepo) FindByClientID(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*entity.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Appointment
	for _, a := range r.s.appointments {
		if a.ClientID == clientID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memAppointmentRepo) CountByClientID(ctx context.Context, clientID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, a := range r.s.appointments {
		if a.ClientID == clientID {
			n++
		}
	}
	return n, nil
}

func (r *memAppointmentRepo) FindByDateRange(ctx context.Context, from, to time.Time) ([]*entity.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Appointment
	for _, a := range r.s.appointments {
		if !a.StartTime.Before(from) && a.StartTime.Before(to) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memAppointmentRepo) CreateTx(ctx context.Context, q database.Querier, appointment *entity.Appointment) error {
	a := *appointment
	r.s.appointments[appointment.ID] = &a
	return nil
}

func (r *memAppointmentRepo) FindForUpdate(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Appointment, error) {
	a, ok := r.s.appointments[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *memAppointmentRepo) UpdatePaymentTx(ctx context.Context, q database.Querier, appointment *entity.Appointment) error {
	a := *appointment
	r.s.appointments[appointment.ID] = &a
	return nil
}

func (r *memAppointmentRepo) DeleteTx(ctx context.Context, q database.Querier, id uuid.UUID) (bool, error) {
	_, ok := r.s.appointments[id]
	delete(r.s.appointments, id)
	return ok, nil
}

// ==================== PAYMENT ====================

type memPaymentRepo struct {
	s *memStore
}

func (r *memPaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memPaymentRepo) FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) ([]*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Payment
	for _, p := range r.s.payments {
		if p.AppointmentID != nil && *p.AppointmentID == appointmentID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memPaymentRepo) FindByClientID(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Payment
	for _, p := range r.s.payments {
		if p.ClientID != nil && *p.ClientID == clientID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memPaymentRepo) CountByClientID(ctx context.Context, clientID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, p := range r.s.payments {
		if p.ClientID != nil && *p.ClientID == clientID {
			n++
		}
	}
	return n, nil
}

func (r *memPaymentRepo) SummarizeByMethod(ctx context.Context, day time.Time) ([]repository.MethodTotal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byMethod := make(map[string]*repository.MethodTotal)
	for _, p := range r.s.payments {
		if !sameDay(p.CreatedAt, day) {
			continue
		}
		mt, ok := byMethod[p.PaymentMethod]
		if !ok {
			mt = &repository.MethodTotal{PaymentMethod: p.PaymentMethod}
			byMethod[p.PaymentMethod] = mt
		}
		mt.Count++
		mt.Total = mt.Total.Add(p.Amount)
	}
	out := make([]repository.MethodTotal, 0, len(byMethod))
	for _, mt := range byMethod {
		out = append(out, *mt)
	}
	return out, nil
}

func (r *memPaymentRepo) GetDayTotals(ctx context.Context, day time.Time) (*repository.DayTotals, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	totals := &repository.DayTotals{}
	for _, p := range r.s.payments {
		if !sameDay(p.CreatedAt, day) {
			continue
		}
		totals.Count++
		totals.Total = totals.Total.Add(p.Amount)
		if p.IsPackage {
			totals.PackageTotal = totals.PackageTotal.Add(p.Amount)
		} else {
			totals.SingleTotal = totals.SingleTotal.Add(p.Amount)
		}
	}
	return totals, nil
}

func (r *memPaymentRepo) CreateTx(ctx context.Context, q database.Querier, payment *entity.Payment) error {
	r.s.paymentCreateCalls++
	if r.s.paymentCreateErr != nil {
		return r.s.paymentCreateErr
	}
	p := *payment
	r.s.payments[payment.ID] = &p
	return nil
}

// ==================== REFUND ====================

type memRefundRepo struct {
	s *memStore
}

func (r *memRefundRepo) Create(ctx context.Context, refund *entity.Refund) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rf := *refund
	r.s.refunds[refund.ID] = &rf
	return nil
}

func (r *memRefundRepo) FindByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]*entity.Refund, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Refund
	for _, rf := range r.s.refunds {
		if rf.OriginalPaymentID == paymentID {
			cp := *rf
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memRefundRepo) SumByDay(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := decimal.Zero
	for _, rf := range r.s.refunds {
		if sameDay(rf.CreatedAt, day) {
			sum = sum.Add(rf.RefundAmount)
		}
	}
	return sum, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
