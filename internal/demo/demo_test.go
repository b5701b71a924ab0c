package demo

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/medai-console/internal/appointment"
	"github.com/hackgods/medai-console/internal/patient"
)

type fakeAccounts struct{ calls int }

func (f *fakeAccounts) SeedDemo(context.Context) error {
	f.calls++
	return nil
}

func TestLoad_Idempotent(t *testing.T) {
	ctx := context.Background()
	accounts := &fakeAccounts{}
	patients := patient.NewService(patient.NewMemoryRepository(), zerolog.Nop())
	appointments := appointment.NewService(appointment.NewMemoryRepository(), zerolog.Nop())

	require.NoError(t, Load(ctx, accounts, patients, appointments))
	require.NoError(t, Load(ctx, accounts, patients, appointments))
	assert.Equal(t, 2, accounts.calls)

	ps, err := patients.List(ctx, patient.Filter{})
	require.NoError(t, err)
	require.Len(t, ps, 2)
	// most recently updated first
	assert.Equal(t, "Robert Smith", ps[0].FullName())

	as, err := appointments.List(ctx, appointment.Filter{})
	require.NoError(t, err)
	require.Len(t, as, 3)
	assert.Equal(t, "Emma Johnson", as[0].PatientName)
	assert.Equal(t, ID("patient", "1"), as[0].PatientID)
}

func TestID_Stable(t *testing.T) {
	assert.Equal(t, ID("patient", "1"), ID("patient", "1"))
	assert.NotEqual(t, ID("patient", "1"), ID("appointment", "1"))
}
