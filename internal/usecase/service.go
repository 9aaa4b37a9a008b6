package usecase

import (
	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/data/repository"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/pkg/database"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Client      ClientService
	Appointment AppointmentService
	Ledger      LedgerService
	Report      ReportService
}

func NewService(repo *repository.Repository, tx database.TxRunner, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Client:      NewClientService(repo.Client, log),
		Appointment: NewAppointmentService(repo, tx, log),
		Ledger:      NewLedgerService(repo, tx, config, log),
		Report:      NewReportService(repo, log),
	}
}
