package patient

import (
	"context"
	"errors"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrDuplicateID     = errors.New("patient id already exists")
	ErrInvalidStatus   = errors.New("invalid patient status")
)

// Repository is the Patient Store. Implementations assign IDs on Create and
// run Update's mutate callback atomically with the write.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Patient, error)
	GetByID(ctx context.Context, id string) (*Patient, error)
	Create(ctx context.Context, p *Patient) error
	Update(ctx context.Context, id string, fn func(p *Patient) error) (*Patient, error)
	Delete(ctx context.Context, id string) error
}
