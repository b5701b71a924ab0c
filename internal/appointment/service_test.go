package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 5, 15, 8, 0, 0, 0, time.UTC)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestService() (*Service, *fakeClock) {
	clock := &fakeClock{t: base}
	svc := NewService(NewMemoryRepository(), zerolog.Nop())
	svc.now = clock.now
	return svc, clock
}

func followUp(at time.Time) Input {
	end := at.Add(30 * time.Minute)
	return Input{
		PatientID:   "p-1",
		PatientName: "Emma Johnson",
		Date:        at,
		EndTime:     &end,
		Type:        TypeFollowUp,
	}
}

func TestCreateThenGet(t *testing.T) {
	svc, clock := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, followUp(base.Add(2*time.Hour)))
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, StatusScheduled, created.Status)
	assert.Equal(t, clock.t, created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)
}

func TestCreate_EndBeforeStart(t *testing.T) {
	svc, _ := newTestService()

	in := followUp(base)
	early := base.Add(-time.Minute)
	in.EndTime = &early

	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrEndBeforeStart)
}

func TestUpdate_PreservesUntouchedFields(t *testing.T) {
	svc, clock := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, followUp(base.Add(time.Hour)))
	require.NoError(t, err)

	clock.t = clock.t.Add(time.Minute)
	completed := StatusCompleted
	notes := "BP normal"
	updated, err := svc.Update(ctx, created.ID, Patch{Status: &completed, Notes: &notes})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, updated.Status)
	assert.Equal(t, "BP normal", updated.Notes)
	assert.Equal(t, created.PatientName, updated.PatientName)
	assert.Equal(t, created.Date, updated.Date)
	assert.Equal(t, created.Type, updated.Type)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, clock.t, updated.UpdatedAt)
}

func TestUpdate_Errors(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	notes := "x"
	_, err := svc.Update(ctx, "999", Patch{Notes: &notes})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	created, err := svc.Create(ctx, followUp(base))
	require.NoError(t, err)

	bad := AppointmentStatus("pending")
	_, err = svc.Update(ctx, created.ID, Patch{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	earlier := base.Add(-time.Hour)
	_, err = svc.Update(ctx, created.ID, Patch{EndTime: &earlier})
	assert.ErrorIs(t, err, ErrEndBeforeStart)

	// rejected update leaves the record alone
	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, base.Add(30*time.Minute), *got.EndTime)
}

func TestUpdate_ClearEndTime(t *testing.T) {
	svc, clock := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, followUp(base))
	require.NoError(t, err)
	require.NotNil(t, created.EndTime)

	clock.t = base.Add(time.Minute)
	updated, err := svc.Update(ctx, created.ID, Patch{ClearEndTime: true})
	require.NoError(t, err)
	assert.Nil(t, updated.EndTime)
	assert.Equal(t, base, updated.Ends())

	// clearing wins over a supplied end time
	later := base.Add(time.Hour)
	updated, err = svc.Update(ctx, created.ID, Patch{EndTime: &later, ClearEndTime: true})
	require.NoError(t, err)
	assert.Nil(t, updated.EndTime)
}

func TestRemove(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	assert.ErrorIs(t, svc.Remove(ctx, "999"), ErrAppointmentNotFound)

	created, err := svc.Create(ctx, followUp(base))
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestList_SortedByDateWithFilters(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	late, err := svc.Create(ctx, followUp(base.Add(26*time.Hour)))
	require.NoError(t, err)
	early, err := svc.Create(ctx, followUp(base.Add(time.Hour)))
	require.NoError(t, err)

	other := followUp(base.Add(3 * time.Hour))
	other.PatientID = "p-2"
	mid, err := svc.Create(ctx, other)
	require.NoError(t, err)

	all, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{early.ID, mid.ID, late.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	byPatient, err := svc.List(ctx, Filter{PatientID: "p-2"})
	require.NoError(t, err)
	require.Len(t, byPatient, 1)
	assert.Equal(t, mid.ID, byPatient[0].ID)

	sameDay, err := svc.List(ctx, Filter{From: base.Truncate(24 * time.Hour), To: base.Truncate(24 * time.Hour).Add(24 * time.Hour)})
	require.NoError(t, err)
	assert.Len(t, sameDay, 2)
}

func TestMarkNoShows(t *testing.T) {
	svc, clock := newTestService()
	ctx := context.Background()

	overdue, err := svc.Create(ctx, followUp(base.Add(-3*time.Hour)))
	require.NoError(t, err)
	recent, err := svc.Create(ctx, followUp(base.Add(-40*time.Minute))) // ends 10 minutes ago
	require.NoError(t, err)
	upcoming, err := svc.Create(ctx, followUp(base.Add(time.Hour)))
	require.NoError(t, err)
	done, err := svc.Create(ctx, followUp(base.Add(-5*time.Hour)))
	require.NoError(t, err)
	completed := StatusCompleted
	_, err = svc.Update(ctx, done.ID, Patch{Status: &completed})
	require.NoError(t, err)

	marked, err := svc.MarkNoShows(ctx, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	got, err := svc.Get(ctx, overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusNoShow, got.Status)
	assert.Equal(t, clock.t, got.UpdatedAt)

	for id, want := range map[string]AppointmentStatus{
		recent.ID:   StatusScheduled,
		upcoming.ID: StatusScheduled,
		done.ID:     StatusCompleted,
	} {
		got, err := svc.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status)
	}

	// second run is a no-op
	marked, err = svc.MarkNoShows(ctx, 30*time.Minute)
	require.NoError(t, err)
	assert.Zero(t, marked)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	end := base.Add(time.Hour)
	a := &Appointment{PatientName: "Emma", Date: base, EndTime: &end, Status: StatusScheduled}
	require.NoError(t, repo.Create(ctx, a))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	*got.EndTime = base.Add(99 * time.Hour)
	got.Notes = "mutated"

	again, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, end, *again.EndTime)
	assert.Empty(t, again.Notes)
}
