package wire

import (
	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAppointment(r chi.Router, handler *adaptor.Handler) {
	r.Route("/api/appointments", func(r chi.Router) {
		// POST /api/appointments - Book, optionally consuming a pooled session
		r.Post("/", handler.Appointment.CreateAppointment)

		// GET /api/appointments - Calendar feed by date range
		r.Get("/", handler.Appointment.GetCalendar)

		// GET /api/appointments/{id} - Appointment details with package progress
		r.Get("/{id}", handler.Appointment.GetAppointment)

		// DELETE /api/appointments/{id} - Cancel, returning a pooled session
		r.Delete("/{id}", handler.Appointment.DeleteAppointment)

		// GET /api/appointments/{id}/payments - Payments against this appointment
		r.Get("/{id}/payments", handler.Payment.GetAppointmentPayments)

		// GET /api/appointments/{id}/check-amount - Pre-check a payment amount
		r.Get("/{id}/check-amount", handler.Payment.CheckPaymentAmount)
	})
}
