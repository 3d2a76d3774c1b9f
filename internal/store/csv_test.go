package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cerridwen-io/babyrs/internal/event"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportCSV_InsertsAllRows(t *testing.T) {
	s := newTestStore(t)

	path := writeCSV(t, `occurred_at,kind,source,quantity_ml,minutes,urine,stool,notes
2024-03-01 08:00,feeding,formula,90,,,,morning bottle
2024-03-01 09:30,diaper_change,,,,true,false,
2024-03-01 10:00,sleep,,,45,,,nap
`)

	result, err := s.ImportCSV(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Inserted)

	_, err = uuid.Parse(result.Batch)
	assert.NoError(t, err, "batch should be a valid uuid")

	events, err := s.ListEvents(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, event.KindSleep, events[0].Kind)
	assert.Equal(t, event.KindDiaperChange, events[1].Kind)
	assert.Equal(t, event.KindFeeding, events[2].Kind)
}

func TestImportCSV_HumanTimestampsAreLocal(t *testing.T) {
	s := newTestStore(t)

	path := writeCSV(t, `occurred_at,kind,source,quantity_ml,minutes,urine,stool,notes
2024-03-01 08:00,sleep,,,45,,,
`)

	_, err := s.ImportCSV(context.Background(), path)
	require.NoError(t, err)

	events, err := s.ListEvents(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, events, 1)

	// The human layout carries no zone; it means local time, same as
	// the interactive form.
	want := time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local)
	assert.True(t, events[0].OccurredAt.Equal(want))
}

func TestImportCSV_AcceptsRFC3339Timestamps(t *testing.T) {
	s := newTestStore(t)

	path := writeCSV(t, `occurred_at,kind,source,quantity_ml,minutes,urine,stool,notes
2024-03-01T08:00:00Z,pumping,,120,,,,
`)

	result, err := s.ImportCSV(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
}

func TestImportCSV_BadHeader(t *testing.T) {
	s := newTestStore(t)

	path := writeCSV(t, `when,kind,source,quantity_ml,minutes,urine,stool,notes
2024-03-01 08:00,feeding,formula,90,,,,
`)

	_, err := s.ImportCSV(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header")
}

func TestImportCSV_InvalidRowRejectsWholeFile(t *testing.T) {
	s := newTestStore(t)

	path := writeCSV(t, `occurred_at,kind,source,quantity_ml,minutes,urine,stool,notes
2024-03-01 08:00,feeding,formula,90,,,,ok row
2024-03-01 09:00,sleep,,,,,,missing minutes
`)

	_, err := s.ImportCSV(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")

	// Nothing from the file may have landed.
	events, listErr := s.ListEvents(context.Background(), Filter{})
	require.NoError(t, listErr)
	assert.Empty(t, events)
}

func TestImportCSV_MissingFile(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ImportCSV(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}
