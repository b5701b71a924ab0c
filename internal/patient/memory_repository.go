package patient

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]Patient
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]Patient)}
}

func (r *MemoryRepository) List(_ context.Context, f Filter) ([]Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Patient, 0, len(r.items))
	for _, p := range r.items {
		if f.Matches(p) {
			out = append(out, p)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	return &p, nil
}

func (r *MemoryRepository) Create(_ context.Context, p *Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, exists := r.items[p.ID]; exists {
		return ErrDuplicateID
	}

	r.items[p.ID] = *p
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, id string, fn func(p *Patient) error) (*Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return nil, ErrPatientNotFound
	}

	if err := fn(&p); err != nil {
		return nil, err
	}

	p.ID = id
	r.items[id] = p
	return &p, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrPatientNotFound
	}
	delete(r.items, id)
	return nil
}
