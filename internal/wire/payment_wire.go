package wire

import (
	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePayment(r chi.Router, handler *adaptor.Handler) {
	// POST /api/payments - Record a payment (package prepayment, single
	// package session, partial, or plain full payment)
	r.Post("/api/payments", handler.Payment.RecordPayment)

	// GET /api/payments/{id} - Payment record by ID
	r.Get("/api/payments/{id}", handler.Payment.GetPayment)

	// GET /api/payments/{id}/refunds - Refunds recorded against a payment
	r.Get("/api/payments/{id}/refunds", handler.Payment.GetPaymentRefunds)

	// POST /api/refunds - Record a refund against a payment
	r.Post("/api/refunds", handler.Payment.RefundPayment)
}
