package wire

import (
	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireClient(r chi.Router, handler *adaptor.Handler) {
	r.Route("/api/clients", func(r chi.Router) {
		// POST /api/clients - Client intake
		r.Post("/", handler.Client.CreateClient)

		// GET /api/clients - Paginated client list
		r.Get("/", handler.Client.GetClients)

		// GET /api/clients/{id} - Client details with remaining sessions
		r.Get("/{id}", handler.Client.GetClient)

		// PUT /api/clients/{id} - Update contact fields
		r.Put("/{id}", handler.Client.UpdateClient)

		// GET /api/clients/{id}/appointments - Client's appointment history
		r.Get("/{id}/appointments", handler.Appointment.GetClientAppointments)

		// GET /api/clients/{id}/payments - Client's payment history
		r.Get("/{id}/payments", handler.Payment.GetClientPayments)
	})
}
