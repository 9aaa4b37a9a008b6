package response

import (
	"time"

	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/data/entity"
)

type PaymentResponse struct {
	ID            string               `json:"id"`
	ReceiptNumber string               `json:"receipt_number"`
	AppointmentID *string              `json:"appointment_id,omitempty"`
	ClientID      *string              `json:"client_id,omitempty"`
	Amount        float64              `json:"amount"`
	PaymentMethod string               `json:"payment_method"`
	PaymentStatus entity.PaymentStatus `json:"payment_status"`
	IsPackage     bool                 `json:"is_package"`
	IsPrepayment  bool                 `json:"is_prepayment"`
	IsPartial     bool                 `json:"is_partial"`
	SessionDate   string               `json:"session_date"`
	Location      *string              `json:"location,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

type RefundResponse struct {
	ID                string              `json:"id"`
	OriginalPaymentID string              `json:"original_payment_id"`
	RefundAmount      float64             `json:"refund_amount"`
	Reason            string              `json:"reason"`
	RefundDate        string              `json:"refund_date"`
	Status            entity.RefundStatus `json:"status"`
	CreatedAt         time.Time           `json:"created_at"`
}

func PaymentToResponse(payment *entity.Payment) PaymentResponse {
	var appointmentID, clientID *string
	if payment.AppointmentID != nil {
		s := payment.AppointmentID.String()
		appointmentID = &s
	}
	if payment.ClientID != nil {
		s := payment.ClientID.String()
		clientID = &s
	}

	return PaymentResponse{
		ID:            payment.ID.String(),
		ReceiptNumber: payment.ReceiptNumber,
		AppointmentID: appointmentID,
		ClientID:      clientID,
		Amount:        payment.Amount.InexactFloat64(),
		PaymentMethod: payment.PaymentMethod,
		PaymentStatus: payment.PaymentStatus,
		IsPackage:     payment.IsPackage,
		IsPrepayment:  payment.IsPrepayment,
		IsPartial:     payment.IsPartial,
		SessionDate:   payment.SessionDate.Format("2006-01-02"),
		Location:      payment.Location,
		CreatedAt:     payment.CreatedAt,
	}
}

func RefundToResponse(refund *entity.Refund) RefundResponse {
	return RefundResponse{
		ID:                refund.ID.String(),
		OriginalPaymentID: refund.OriginalPaymentID.String(),
		RefundAmount:      refund.RefundAmount.InexactFloat64(),
		Reason:            refund.Reason,
		RefundDate:        refund.RefundDate.Format("2006-01-02"),
		Status:            refund.Status,
		CreatedAt:         refund.CreatedAt,
	}
}
