package entity

// Client is a clinic client. RemainingSessions is the centralized pool of
// prepaid sessions usable for any future booking, independent of which
// package purchase funded them. It is mutated only by the ledger operations.
type Client struct {
	Base
	Name              string  `db:"name"`
	PhoneNumber       *string `db:"phone_number"`
	Notes             *string `db:"notes"`
	RemainingSessions int     `db:"remaining_sessions"`
}
