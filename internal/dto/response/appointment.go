package response

import (
	"time"

	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/data/entity"
)

type AppointmentResponse struct {
	ID                   string               `json:"id"`
	ClientID             string               `json:"client_id"`
	Title                string               `json:"title"`
	StartTime            time.Time            `json:"start_time"`
	EndTime              time.Time            `json:"end_time"`
	Location             *string              `json:"location,omitempty"`
	IsPackage            bool                 `json:"is_package"`
	PackageSessions      int                  `json:"package_sessions"`
	SessionsPaid         int                  `json:"sessions_paid"`
	Amount               float64              `json:"amount"`
	AmountPaid           float64              `json:"amount_paid"`
	PaymentStatus        entity.PaymentStatus `json:"payment_status"`
	IsPackagePrepaid     bool                 `json:"is_package_prepaid"`
	UsedCentralRemaining bool                 `json:"used_central_remaining"`
	PackageProgress      float64              `json:"package_progress"`
	CreatedAt            time.Time            `json:"created_at"`
}

func AppointmentToResponse(a *entity.Appointment, progress float64) AppointmentResponse {
	return AppointmentResponse{
		ID:                   a.ID.String(),
		ClientID:             a.ClientID.String(),
		Title:                a.Title,
		StartTime:            a.StartTime,
		EndTime:              a.EndTime,
		Location:             a.Location,
		IsPackage:            a.IsPackage,
		PackageSessions:      a.PackageSessions,
		SessionsPaid:         a.SessionsPaid,
		Amount:               a.Amount.InexactFloat64(),
		AmountPaid:           a.AmountPaid.InexactFloat64(),
		PaymentStatus:        a.PaymentStatus,
		IsPackagePrepaid:     a.IsPackagePrepaid,
		UsedCentralRemaining: a.UsedCentralRemaining,
		PackageProgress:      progress,
		CreatedAt:            a.CreatedAt,
	}
}
