package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is an immutable record of money changing hands. It is never
// updated or deleted; refunds are separate records, not edits.
type Payment struct {
	BaseSimple
	ReceiptNumber string          `db:"receipt_number"`
	AppointmentID *uuid.UUID      `db:"appointment_id"`
	ClientID      *uuid.UUID      `db:"client_id"`
	Amount        decimal.Decimal `db:"amount"`
	PaymentMethod string          `db:"payment_method"`
	PaymentStatus PaymentStatus   `db:"payment_status"`
	IsPackage     bool            `db:"is_package"`
	IsPrepayment  bool            `db:"is_prepayment"`
	IsPartial     bool            `db:"is_partial"`
	SessionDate   time.Time       `db:"session_date"`
	Location      *string         `db:"location"`
}
