package request

type CreateAppointmentRequest struct {
	ClientID  string  `json:"client_id" validate:"required,uuid4"`
	Title     string  `json:"title" validate:"required,max=200"`
	StartTime string  `json:"start_time" validate:"required"` // RFC3339
	EndTime   string  `json:"end_time" validate:"required"`   // RFC3339
	Location  *string `json:"location,omitempty" validate:"omitempty,max=200"`

	IsPackage       bool    `json:"is_package"`
	PackageSessions int     `json:"package_sessions" validate:"omitempty,min=1"`
	Amount          float64 `json:"amount" validate:"min=0"`

	// UsedCentralRemaining books this appointment against one session from
	// the client's prepaid pool.
	UsedCentralRemaining bool `json:"used_central_remaining"`
}
