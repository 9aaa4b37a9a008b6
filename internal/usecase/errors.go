package usecase

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidationError rejects a payment before any transaction starts.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Message)
}

// InsufficientSessionsError aborts a booking that would overdraw the
// client's prepaid session pool. No appointment row is created.
type InsufficientSessionsError struct {
	ClientID  uuid.UUID
	Remaining int
}

func (e *InsufficientSessionsError) Error() string {
	return fmt.Sprintf("client %s has insufficient remaining sessions (%d)", e.ClientID.String(), e.Remaining)
}

// PaymentProcessingError wraps a payment transaction that kept hitting
// transient conflicts after every retry. Transaction semantics guarantee no
// side effects are observable from the failed attempts.
type PaymentProcessingError struct {
	Attempts int
	Err      error
}

func (e *PaymentProcessingError) Error() string {
	return fmt.Sprintf("payment processing failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *PaymentProcessingError) Unwrap() error {
	return e.Err
}
