package response

import (
	"time"

	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/data/entity"
)

type ClientResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	PhoneNumber       *string   `json:"phone_number,omitempty"`
	Notes             *string   `json:"notes,omitempty"`
	RemainingSessions int       `json:"remaining_sessions"`
	CreatedAt         time.Time `json:"created_at"`
}

func ClientToResponse(client *entity.Client) ClientResponse {
	return ClientResponse{
		ID:                client.ID.String(),
		Name:              client.Name,
		PhoneNumber:       client.PhoneNumber,
		Notes:             client.Notes,
		RemainingSessions: client.RemainingSessions,
		CreatedAt:         client.CreatedAt,
	}
}
