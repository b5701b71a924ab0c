package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	EventAppointmentCreated = "APPOINTMENT_CREATED"
	EventAppointmentUpdated = "APPOINTMENT_UPDATED"
	EventAppointmentDeleted = "APPOINTMENT_DELETED"
	EventAppointmentNoShow  = "APPOINTMENT_NO_SHOW"
)

var (
	ErrInvalidStatus           = errors.New("invalid appointment status")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrEndBeforeStart          = errors.New("appointment cannot end before it starts")
)

type Service struct {
	repo Repository
	log  zerolog.Logger
	now  func() time.Time
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  logger.With().Str("component", "appointment").Logger(),
		now:  func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// List returns appointments ordered by scheduled start.
func (s *Service) List(ctx context.Context, f Filter) ([]Appointment, error) {
	appointments, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

// Create books a new scheduled appointment. The patient reference is copied
// as given; it is not checked against the patient store.
func (s *Service) Create(ctx context.Context, in Input) (*Appointment, error) {
	if in.EndTime != nil && in.EndTime.Before(in.Date) {
		return nil, ErrEndBeforeStart
	}

	now := s.now()
	a := &Appointment{
		PatientID:   in.PatientID,
		PatientName: in.PatientName,
		Date:        in.Date.UTC(),
		Type:        in.Type,
		Status:      StatusScheduled,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.EndTime != nil {
		end := in.EndTime.UTC()
		a.EndTime = &end
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.logEvent(a.ID, EventAppointmentCreated).
		Str("patient_id", a.PatientID).
		Time("date", a.Date).
		Msg("appointment event")

	return a, nil
}

// Update merges patch over the stored appointment and re-stamps updatedAt.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (*Appointment, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *patch.Status)
	}

	updated, err := s.repo.Update(ctx, id, func(a *Appointment) error {
		patch.Apply(a)
		if a.EndTime != nil && a.EndTime.Before(a.Date) {
			return ErrEndBeforeStart
		}
		a.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) || errors.Is(err, ErrEndBeforeStart) {
			return nil, err
		}
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	s.logEvent(updated.ID, EventAppointmentUpdated).
		Str("status", string(updated.Status)).
		Msg("appointment event")

	return updated, nil
}

func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return err
		}
		return fmt.Errorf("delete appointment: %w", err)
	}

	s.logEvent(id, EventAppointmentDeleted).Msg("appointment event")
	return nil
}

// MarkNoShows moves scheduled appointments that ended more than grace ago to
// no_show. It is intended to be called by the worker periodically and returns
// how many appointments changed.
func (s *Service) MarkNoShows(ctx context.Context, grace time.Duration) (int, error) {
	cutoff := s.now().Add(-grace)

	candidates, err := s.repo.List(ctx, Filter{Status: StatusScheduled, To: cutoff})
	if err != nil {
		return 0, fmt.Errorf("find overdue appointments: %w", err)
	}

	marked := 0
	for _, appt := range candidates {
		if !appt.Ends().Before(cutoff) {
			continue
		}

		_, err := s.transition(ctx, appt.ID, StatusScheduled, StatusNoShow)
		if err != nil {
			if errors.Is(err, ErrAppointmentNotFound) || errors.Is(err, ErrInvalidStatusTransition) {
				// deleted or rescheduled since we listed it
				continue
			}
			s.log.Error().Err(err).Str("appointment_id", appt.ID).Msg("failed to mark appointment as no-show")
			continue
		}

		s.logEvent(appt.ID, EventAppointmentNoShow).Str("reason", "worker").Msg("appointment event")
		marked++
	}

	return marked, nil
}

// Seed inserts fixed records as-is, keeping their IDs and timestamps.
func (s *Service) Seed(ctx context.Context, appointments []Appointment) error {
	for i := range appointments {
		a := appointments[i]
		if err := s.repo.Create(ctx, &a); err != nil && !errors.Is(err, ErrDuplicateID) {
			return fmt.Errorf("seed appointment %s: %w", a.ID, err)
		}
	}
	return nil
}

func (s *Service) transition(ctx context.Context, id string, from, to AppointmentStatus) (*Appointment, error) {
	return s.repo.Update(ctx, id, func(a *Appointment) error {
		if a.Status != from {
			return ErrInvalidStatusTransition
		}
		a.Status = to
		a.UpdatedAt = s.now()
		return nil
	})
}

func (s *Service) logEvent(appointmentID, eventType string) *zerolog.Event {
	return s.log.Info().
		Str("event", eventType).
		Str("appointment_id", appointmentID)
}
