package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/medai-console/internal/appointment"
	"github.com/hackgods/medai-console/internal/patient"
)

func TestStats(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)

	patients := patient.NewMemoryRepository()
	for _, st := range []patient.Status{patient.StatusActive, patient.StatusActive, patient.StatusCritical, patient.StatusRecovered} {
		require.NoError(t, patients.Create(ctx, &patient.Patient{Status: st, CreatedAt: now, UpdatedAt: now}))
	}

	appointments := appointment.NewMemoryRepository()
	for _, at := range []time.Time{
		now.Add(-12 * time.Hour),             // midnight, counted
		now.Add(2 * time.Hour),               // counted
		now.Add(12 * time.Hour),              // next midnight, not counted
		now.Add(-12*time.Hour - time.Second), // previous day
	} {
		require.NoError(t, appointments.Create(ctx, &appointment.Appointment{Date: at, Status: appointment.StatusScheduled}))
	}

	svc := NewService(patients, appointments)
	stats, err := svc.Stats(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, Stats{
		TotalPatients:     4,
		ActivePatients:    2,
		CriticalPatients:  1,
		AppointmentsToday: 2,
	}, stats)
}
