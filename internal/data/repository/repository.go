package repository

import (
	"github.com/abdelrahmank7/clinic-scheduler-sub001/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Client      ClientRepository
	Appointment AppointmentRepository
	Payment     PaymentRepository
	Refund      RefundRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Client:      NewClientRepository(db, log),
		Appointment: NewAppointmentRepository(db, log),
		Payment:     NewPaymentRepository(db, log),
		Refund:      NewRefundRepository(db, log),
	}
}
