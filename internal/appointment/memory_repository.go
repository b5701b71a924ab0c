package appointment

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]Appointment
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]Appointment)}
}

func clone(a Appointment) Appointment {
	if a.EndTime != nil {
		end := *a.EndTime
		a.EndTime = &end
	}
	return a
}

func (r *MemoryRepository) List(_ context.Context, f Filter) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Appointment, 0, len(r.items))
	for _, a := range r.items {
		if f.Matches(a) {
			out = append(out, clone(a))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.items[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	a = clone(a)
	return &a, nil
}

func (r *MemoryRepository) Create(_ context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if _, exists := r.items[a.ID]; exists {
		return ErrDuplicateID
	}

	r.items[a.ID] = clone(*a)
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, id string, fn func(a *Appointment) error) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}

	a := clone(stored)
	if err := fn(&a); err != nil {
		return nil, err
	}

	a.ID = id
	r.items[id] = clone(a)
	return &a, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrAppointmentNotFound
	}
	delete(r.items, id)
	return nil
}
