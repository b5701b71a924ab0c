package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]Account
	byEmail map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]Account),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return &a, nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrAccountNotFound
	}
	a := r.byID[id]
	return &a, nil
}

func (r *MemoryRepository) Create(_ context.Context, a *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[a.Email]; taken {
		return ErrEmailTaken
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if _, exists := r.byID[a.ID]; exists {
		return ErrDuplicateID
	}

	r.byID[a.ID] = *a
	r.byEmail[a.Email] = a.ID
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, id string, fn func(a *Account) error) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, ErrAccountNotFound
	}

	email := a.Email
	if err := fn(&a); err != nil {
		return nil, err
	}

	// identity fields are fixed
	a.ID = id
	a.Email = email
	r.byID[id] = a
	return &a, nil
}
