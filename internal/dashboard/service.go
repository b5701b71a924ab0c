package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/hackgods/medai-console/internal/appointment"
	"github.com/hackgods/medai-console/internal/patient"
)

type PatientLister interface {
	List(ctx context.Context, f patient.Filter) ([]patient.Patient, error)
}

type AppointmentLister interface {
	List(ctx context.Context, f appointment.Filter) ([]appointment.Appointment, error)
}

type Stats struct {
	TotalPatients     int `json:"totalPatients"`
	ActivePatients    int `json:"activePatients"`
	CriticalPatients  int `json:"criticalPatients"`
	AppointmentsToday int `json:"appointmentsToday"`
}

// Service summarizes the patient and appointment services for the console
// landing page.
type Service struct {
	patients     PatientLister
	appointments AppointmentLister
}

func NewService(patients PatientLister, appointments AppointmentLister) *Service {
	return &Service{patients: patients, appointments: appointments}
}

// Stats counts appointments in the UTC day containing now.
func (s *Service) Stats(ctx context.Context, now time.Time) (Stats, error) {
	patients, err := s.patients.List(ctx, patient.Filter{})
	if err != nil {
		return Stats{}, fmt.Errorf("dashboard patients: %w", err)
	}

	day := now.UTC().Truncate(24 * time.Hour)
	today, err := s.appointments.List(ctx, appointment.Filter{From: day, To: day.Add(24 * time.Hour)})
	if err != nil {
		return Stats{}, fmt.Errorf("dashboard appointments: %w", err)
	}

	stats := Stats{
		TotalPatients:     len(patients),
		AppointmentsToday: len(today),
	}
	for _, p := range patients {
		switch p.Status {
		case patient.StatusActive:
			stats.ActivePatients++
		case patient.StatusCritical:
			stats.CriticalPatients++
		}
	}
	return stats, nil
}
