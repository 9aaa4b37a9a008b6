package request

type CreateClientRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,max=30"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
	// RemainingSessions seeds the pool at intake, e.g. when migrating a
	// client who already holds prepaid sessions.
	RemainingSessions int `json:"remaining_sessions" validate:"min=0"`
}

type UpdateClientRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,max=30"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}
