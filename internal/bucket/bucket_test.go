package bucket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fazamuttaqien/meetsync/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestKeyForMonth(t *testing.T) {
	assert.Equal(t, "2024-03", KeyForMonth(day(2024, time.March, 15)))
	assert.Equal(t, "2024-12", KeyForMonth(day(2024, time.December, 31)))
	assert.Equal(t, "0999-01", KeyForMonth(day(999, time.January, 1)))
}

func TestKeysForRange(t *testing.T) {
	t.Run("single month", func(t *testing.T) {
		keys := KeysForRange(day(2024, time.March, 1), day(2024, time.March, 31))
		assert.Equal(t, []string{"2024-03"}, keys)
	})

	t.Run("spans year boundary", func(t *testing.T) {
		keys := KeysForRange(day(2024, time.November, 20), day(2025, time.February, 3))
		assert.Equal(t, []string{"2024-11", "2024-12", "2025-01", "2025-02"}, keys)
	})

	t.Run("end month included even at month start", func(t *testing.T) {
		keys := KeysForRange(day(2024, time.March, 15), day(2024, time.April, 1))
		assert.Equal(t, []string{"2024-03", "2024-04"}, keys)
	})

	t.Run("inverted range yields nothing", func(t *testing.T) {
		assert.Empty(t, KeysForRange(day(2024, time.April, 1), day(2024, time.March, 1)))
	})
}

func TestKeysForEvent(t *testing.T) {
	t.Run("ending at a month's first midnight stays out of that month", func(t *testing.T) {
		keys := KeysForEvent(day(2024, time.March, 15), day(2024, time.April, 1))
		assert.Equal(t, []string{"2024-03"}, keys)
	})

	t.Run("ending past the month start reaches into it", func(t *testing.T) {
		keys := KeysForEvent(day(2024, time.March, 15), day(2024, time.April, 1).Add(time.Minute))
		assert.Equal(t, []string{"2024-03", "2024-04"}, keys)
	})

	t.Run("zero-length interval at month start keeps its own month", func(t *testing.T) {
		keys := KeysForEvent(day(2024, time.April, 1), day(2024, time.April, 1))
		assert.Equal(t, []string{"2024-04"}, keys)
	})
}

func TestGroupEvents(t *testing.T) {
	rangeStart, rangeEnd := day(2024, time.March, 1), day(2024, time.April, 30)

	spanning := model.CalendarEvent{
		ID: "e1", CalendarID: "cal",
		StartTime: time.Date(2024, time.March, 31, 22, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, time.April, 1, 2, 0, 0, 0, time.UTC),
		IsBusy:    true,
	}
	marchOnly := model.CalendarEvent{
		ID: "e2", CalendarID: "cal",
		StartTime: day(2024, time.March, 10),
		EndTime:   day(2024, time.March, 10).Add(time.Hour),
		IsBusy:    true,
	}

	grouped := GroupEvents([]model.CalendarEvent{spanning, marchOnly}, rangeStart, rangeEnd)

	require.Len(t, grouped, 2)
	assert.Len(t, grouped["2024-03"], 2)
	// The month-spanning event appears in both buckets.
	require.Len(t, grouped["2024-04"], 1)
	assert.Equal(t, "e1", grouped["2024-04"][0].ID)
}

func TestGroupEventsEndingAtMonthBoundary(t *testing.T) {
	// An event ending exactly at April's first midnight never reaches April,
	// so it must not be written into the April bucket.
	boundary := model.CalendarEvent{
		ID: "e1", CalendarID: "cal",
		StartTime: time.Date(2024, time.March, 31, 23, 0, 0, 0, time.UTC),
		EndTime:   day(2024, time.April, 1),
		IsBusy:    true,
	}

	grouped := GroupEvents([]model.CalendarEvent{boundary}, day(2024, time.March, 1), day(2024, time.April, 30))

	require.Len(t, grouped, 2)
	require.Len(t, grouped["2024-03"], 1)
	assert.Empty(t, grouped["2024-04"])
}

func TestGroupEventsTouchesEveryRangeBucket(t *testing.T) {
	// Buckets with no events still get an (empty) entry so the write
	// replaces them wholesale.
	grouped := GroupEvents(nil, day(2024, time.March, 1), day(2024, time.May, 31))
	require.Len(t, grouped, 3)
	for _, key := range []string{"2024-03", "2024-04", "2024-05"} {
		events, ok := grouped[key]
		assert.True(t, ok)
		assert.Empty(t, events)
	}
}

func TestCollectEvents(t *testing.T) {
	ev := func(id string, start, end time.Time) model.CalendarEvent {
		return model.CalendarEvent{ID: id, CalendarID: "cal", StartTime: start, EndTime: end, IsBusy: true}
	}

	t.Run("filters a whole-month bucket to the requested range", func(t *testing.T) {
		// The bucket holds the entire month; a 5-day read returns only the
		// events intersecting those 5 days.
		march := []model.CalendarEvent{
			ev("early", day(2024, time.March, 2), day(2024, time.March, 2).Add(time.Hour)),
			ev("inside", day(2024, time.March, 16), day(2024, time.March, 16).Add(time.Hour)),
			ev("edge", day(2024, time.March, 14).Add(23*time.Hour), day(2024, time.March, 15).Add(time.Hour)),
			ev("late", day(2024, time.March, 25), day(2024, time.March, 25).Add(time.Hour)),
		}

		got := CollectEvents([][]model.CalendarEvent{march}, day(2024, time.March, 15), day(2024, time.March, 20))

		ids := make([]string, 0, len(got))
		for _, e := range got {
			ids = append(ids, e.ID)
		}
		assert.ElementsMatch(t, []string{"inside", "edge"}, ids)
	})

	t.Run("deduplicates events appearing in multiple buckets", func(t *testing.T) {
		spanning := ev("span",
			time.Date(2024, time.March, 31, 22, 0, 0, 0, time.UTC),
			time.Date(2024, time.April, 1, 2, 0, 0, 0, time.UTC),
		)
		got := CollectEvents(
			[][]model.CalendarEvent{{spanning}, {spanning}},
			day(2024, time.March, 1), day(2024, time.April, 30),
		)
		assert.Len(t, got, 1)
	})

	t.Run("no buckets reads as empty", func(t *testing.T) {
		assert.Empty(t, CollectEvents(nil, day(2024, time.March, 1), day(2024, time.March, 31)))
	})
}
