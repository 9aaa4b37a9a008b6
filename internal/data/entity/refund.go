package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusCompleted RefundStatus = "completed"
)

// Refund references the original payment but does not reverse the
// appointment's or client's ledger state.
type Refund struct {
	BaseSimple
	OriginalPaymentID uuid.UUID       `db:"original_payment_id"`
	RefundAmount      decimal.Decimal `db:"refund_amount"`
	Reason            string          `db:"reason"`
	RefundDate        time.Time       `db:"refund_date"`
	Status            RefundStatus    `db:"status"`
}
