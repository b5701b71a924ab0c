package auth

import (
	"context"
	"errors"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrDuplicateID     = errors.New("account id already exists")
)

// Repository is the Credential Store. Email is unique; Create reports a clash
// as ErrEmailTaken regardless of what the caller checked beforehand.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	Create(ctx context.Context, a *Account) error
	Update(ctx context.Context, id string, fn func(a *Account) error) (*Account, error)
}
