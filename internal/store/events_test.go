package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cerridwen-io/babyrs/internal/event"
	"github.com/cerridwen-io/babyrs/internal/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func feedingAt(at time.Time, ml int) event.Event {
	return event.Event{
		Kind:       event.KindFeeding,
		OccurredAt: at,
		Source:     event.FeedFormula,
		QuantityML: ml,
		Notes:      "test feed",
	}
}

func TestCreateGet_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := feedingAt(time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC), 90)
	want.Normalize()
	require.NoError(t, want.Validate())

	id, err := s.CreateEvent(ctx, want)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	got, err := s.GetEvent(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, want.Kind, got.Kind)
	assert.True(t, got.OccurredAt.Equal(want.OccurredAt))
	assert.Equal(t, want.Notes, got.Notes)
	assert.Equal(t, want.Source, got.Source)
	assert.Equal(t, want.QuantityML, got.QuantityML)
	assert.Equal(t, want.Minutes, got.Minutes)
	assert.Equal(t, want.Urine, got.Urine)
	assert.Equal(t, want.Stool, got.Stool)
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetEvent(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestList_OrderedNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	clock := testutil.NewDeterministicClock(
		time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC), time.Hour)

	t0 := clock.Now()
	t1 := clock.Now()
	t2 := clock.Now()

	// Insert out of chronological order.
	_, err := s.CreateEvent(ctx, feedingAt(t1, 60))
	require.NoError(t, err)
	_, err = s.CreateEvent(ctx, feedingAt(t0, 90))
	require.NoError(t, err)
	_, err = s.CreateEvent(ctx, feedingAt(t2, 120))
	require.NoError(t, err)

	events, err := s.ListEvents(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.True(t, events[0].OccurredAt.Equal(t2))
	assert.True(t, events[1].OccurredAt.Equal(t1))
	assert.True(t, events[2].OccurredAt.Equal(t0))
}

func TestList_FeedingThenDiaperScenario(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t0 := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	t1 := t0.Add(30 * time.Minute)

	_, err := s.CreateEvent(ctx, feedingAt(t0, 90))
	require.NoError(t, err)

	events, err := s.ListEvents(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, event.KindFeeding, events[0].Kind)
	assert.Equal(t, 90, events[0].QuantityML)

	_, err = s.CreateEvent(ctx, event.Event{
		Kind:       event.KindDiaperChange,
		OccurredAt: t1,
		Urine:      true,
	})
	require.NoError(t, err)

	events, err = s.ListEvents(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, event.KindDiaperChange, events[0].Kind)
	assert.Equal(t, event.KindFeeding, events[1].Kind)
}

func TestList_EmptyReturnsEmptySlice(t *testing.T) {
	s := newTestStore(t)

	events, err := s.ListEvents(context.Background(), Filter{})
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestList_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t0 := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	_, err := s.CreateEvent(ctx, feedingAt(t0, 90))
	require.NoError(t, err)
	_, err = s.CreateEvent(ctx, event.Event{Kind: event.KindSleep, OccurredAt: t0.Add(time.Hour), Minutes: 45})
	require.NoError(t, err)
	_, err = s.CreateEvent(ctx, feedingAt(t0.Add(2*time.Hour), 60))
	require.NoError(t, err)

	byKind, err := s.ListEvents(ctx, Filter{Kind: event.KindFeeding})
	require.NoError(t, err)
	assert.Len(t, byKind, 2)

	byRange, err := s.ListEvents(ctx, Filter{Since: t0.Add(time.Hour), Until: t0.Add(2 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, byRange, 1)
	assert.Equal(t, event.KindSleep, byRange[0].Kind)

	limited, err := s.ListEvents(ctx, Filter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.True(t, limited[0].OccurredAt.Equal(t0.Add(2*time.Hour)))
}

func TestUpdate_ChangesFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateEvent(ctx, feedingAt(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), 90))
	require.NoError(t, err)

	updated := feedingAt(time.Date(2024, 3, 1, 8, 15, 0, 0, time.UTC), 120)
	updated.Notes = "topped up"

	got, err := s.UpdateEvent(ctx, id, updated)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, 120, got.QuantityML)
	assert.Equal(t, "topped up", got.Notes)
	assert.True(t, got.OccurredAt.Equal(updated.OccurredAt))
}

func TestUpdate_UnchangedValuesIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e := feedingAt(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), 90)
	id, err := s.CreateEvent(ctx, e)
	require.NoError(t, err)

	before, err := s.GetEvent(ctx, id)
	require.NoError(t, err)

	_, err = s.UpdateEvent(ctx, id, before)
	require.NoError(t, err)

	after, err := s.GetEvent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdate_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UpdateEvent(context.Background(), 999, feedingAt(time.Now(), 90))
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestDelete_RemovesEvent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateEvent(ctx, feedingAt(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), 90))
	require.NoError(t, err)

	require.NoError(t, s.DeleteEvent(ctx, id))

	_, err = s.GetEvent(ctx, id)
	assert.True(t, IsNotFound(err))
}

func TestDelete_NotFoundOnEmptyStore(t *testing.T) {
	s := newTestStore(t)

	err := s.DeleteEvent(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestDelete_NotIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateEvent(ctx, feedingAt(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), 90))
	require.NoError(t, err)

	require.NoError(t, s.DeleteEvent(ctx, id))

	err = s.DeleteEvent(ctx, id)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}
