package request

// RecordPaymentRequest carries one payment event. The flag combination picks
// the variant: partial, package prepayment, single package session, or a
// plain full payment. Amount is deliberately untagged; the ledger validates
// it itself so a negative amount surfaces as a typed error, not a 400 from
// the struct validator.
type RecordPaymentRequest struct {
	AppointmentID *string `json:"appointment_id,omitempty" validate:"omitempty,uuid4"`
	ClientID      *string `json:"client_id,omitempty" validate:"omitempty,uuid4"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=cash card transfer instapay wallet"`
	IsPackage     bool    `json:"is_package"`
	IsPrepayment  bool    `json:"is_prepayment"`
	IsPartial     bool    `json:"is_partial"`
	// PackageSessions and SessionsPaid override the appointment's own values
	// when present; the ledger falls back to its defaults otherwise.
	PackageSessions *int    `json:"package_sessions,omitempty" validate:"omitempty,min=1"`
	SessionsPaid    *int    `json:"sessions_paid,omitempty" validate:"omitempty,min=0"`
	SessionDate     string  `json:"session_date" validate:"required,datetime=2006-01-02"`
	Location        *string `json:"location,omitempty" validate:"omitempty,max=200"`
}

type RefundPaymentRequest struct {
	OriginalPaymentID string  `json:"original_payment_id" validate:"required,uuid4"`
	RefundAmount      float64 `json:"refund_amount" validate:"required,gt=0"`
	Reason            string  `json:"reason" validate:"required,max=500"`
	RefundDate        string  `json:"refund_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
