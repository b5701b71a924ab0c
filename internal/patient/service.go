package patient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type Service struct {
	repo Repository
	log  zerolog.Logger
	now  func() time.Time
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  logger.With().Str("component", "patient").Logger(),
		now:  func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// List returns patients, most recently updated first.
func (s *Service) List(ctx context.Context, f Filter) ([]Patient, error) {
	patients, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return p, nil
}

// Create stores a new active patient. createdAt and updatedAt are the same
// instant.
func (s *Service) Create(ctx context.Context, f Fields) (*Patient, error) {
	now := s.now()
	p := &Patient{
		Fields:    f,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}

	s.log.Info().Str("patient_id", p.ID).Msg("patient created")
	return p, nil
}

// Update merges patch over the stored record and re-stamps updatedAt.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (*Patient, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *patch.Status)
	}

	updated, err := s.repo.Update(ctx, id, func(p *Patient) error {
		patch.Apply(p)
		p.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update patient: %w", err)
	}

	return updated, nil
}

func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return err
		}
		return fmt.Errorf("delete patient: %w", err)
	}

	s.log.Info().Str("patient_id", id).Msg("patient deleted")
	return nil
}

// Seed inserts fixed records as-is, keeping their IDs and timestamps. Used to
// preload demo data into a fresh store.
func (s *Service) Seed(ctx context.Context, patients []Patient) error {
	for i := range patients {
		p := patients[i]
		if err := s.repo.Create(ctx, &p); err != nil && !errors.Is(err, ErrDuplicateID) {
			return fmt.Errorf("seed patient %s: %w", p.ID, err)
		}
	}
	return nil
}
