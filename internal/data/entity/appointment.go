package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Appointment is a calendar booking, a package purchase, or both.
// When IsPackage is true: 0 <= SessionsPaid <= PackageSessions.
// UsedCentralRemaining marks that creating this appointment consumed one
// session from the client's centralized pool.
type Appointment struct {
	Base
	ClientID             uuid.UUID       `db:"client_id"`
	Title                string          `db:"title"`
	StartTime            time.Time       `db:"start_time"`
	EndTime              time.Time       `db:"end_time"`
	Location             *string         `db:"location"`
	IsPackage            bool            `db:"is_package"`
	PackageSessions      int             `db:"package_sessions"`
	SessionsPaid         int             `db:"sessions_paid"`
	Amount               decimal.Decimal `db:"amount"`
	AmountPaid           decimal.Decimal `db:"amount_paid"`
	PaymentStatus        PaymentStatus   `db:"payment_status"`
	IsPackagePrepaid     bool            `db:"is_package_prepaid"`
	UsedCentralRemaining bool            `db:"used_central_remaining"`
}
