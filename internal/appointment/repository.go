package appointment

import (
	"context"
	"errors"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrDuplicateID         = errors.New("appointment id already exists")
)

// Repository is the Appointment Store.
type Repository interface {
	// Reads, ordered by Date ascending
	List(ctx context.Context, f Filter) ([]Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)

	// Create assigns an ID when the appointment has none
	Create(ctx context.Context, a *Appointment) error
	// Update runs fn on the stored record and persists the result atomically
	Update(ctx context.Context, id string, fn func(a *Appointment) error) (*Appointment, error)
	Delete(ctx context.Context, id string) error
}
