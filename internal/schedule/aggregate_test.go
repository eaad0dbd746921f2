package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fazamuttaqien/meetsync/internal/model"
)

var day = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func block(start, end time.Time) model.TimeBlock {
	return model.TimeBlock{StartTime: start, EndTime: end}
}

func doc(uid string, busy ...model.TimeBlock) *model.AvailabilityDoc {
	return &model.AvailabilityDoc{UID: uid, BusyBlocks: busy, ManualBlocks: []model.TimeBlock{}}
}

func TestAggregateSingleFreeParticipant(t *testing.T) {
	// One participant, fully free, one-day window, 30-minute slots.
	slots := Aggregate(at(0, 0), at(24, 0), 30*time.Minute,
		[]string{"u1"},
		map[string]*model.AvailabilityDoc{"u1": doc("u1")},
	)

	require.Len(t, slots, 48)
	for _, s := range slots {
		assert.Equal(t, 1, s.AvailableCount)
		assert.Equal(t, 1.0, s.Availability)
		assert.True(t, s.IsOptimal)
	}
}

func TestAggregateBusyParticipantDip(t *testing.T) {
	// P1 busy [09:00, 10:00), P2 free, window [08:00, 11:00), 30-minute slots.
	slots := Aggregate(at(8, 0), at(11, 0), 30*time.Minute,
		[]string{"p1", "p2"},
		map[string]*model.AvailabilityDoc{
			"p1": doc("p1", block(at(9, 0), at(10, 0))),
			"p2": doc("p2"),
		},
	)

	require.Len(t, slots, 6)

	wantCounts := []int{2, 2, 1, 1, 2, 2}
	for i, s := range slots {
		assert.Equal(t, at(8, 0).Add(time.Duration(i)*30*time.Minute), s.StartTime)
		assert.Equal(t, wantCounts[i], s.AvailableCount, "slot %d", i)
		assert.Equal(t, wantCounts[i] == 2, s.IsOptimal, "slot %d", i)
	}
}

func TestAggregateMissingDocIsOptimistic(t *testing.T) {
	// p2 has no doc: no response yet, counted as available and kept in the
	// denominator.
	slots := Aggregate(at(9, 0), at(10, 0), 30*time.Minute,
		[]string{"p1", "p2"},
		map[string]*model.AvailabilityDoc{
			"p1": doc("p1", block(at(9, 0), at(10, 0))),
		},
	)

	require.Len(t, slots, 2)
	for _, s := range slots {
		assert.Equal(t, 1, s.AvailableCount)
		assert.Equal(t, 0.5, s.Availability)
		assert.False(t, s.IsOptimal)
	}
}

func TestAggregateZeroParticipants(t *testing.T) {
	slots := Aggregate(at(9, 0), at(10, 0), 30*time.Minute, nil, nil)

	require.Len(t, slots, 2)
	for _, s := range slots {
		assert.Equal(t, 0, s.AvailableCount)
		assert.Equal(t, 0.0, s.Availability)
		// Optimal requires at least one participant.
		assert.False(t, s.IsOptimal)
	}
}

func TestAggregateTruncatesPartialTrailingSlot(t *testing.T) {
	// Window [09:00, 10:45) on a 30-minute grid: the 10:30 slot would poke
	// past the window and is dropped.
	slots := Aggregate(at(9, 0), at(10, 45), 30*time.Minute,
		[]string{"u1"}, map[string]*model.AvailabilityDoc{"u1": doc("u1")})

	require.Len(t, slots, 3)
	assert.Equal(t, at(10, 0), slots[2].StartTime)
	assert.Equal(t, at(10, 30), slots[2].EndTime)
}

func TestAggregateMalformedBlockIsInert(t *testing.T) {
	slots := Aggregate(at(9, 0), at(10, 0), 30*time.Minute,
		[]string{"u1"},
		map[string]*model.AvailabilityDoc{
			"u1": doc("u1", block(at(10, 0), at(9, 0))), // end <= start
		},
	)

	for _, s := range slots {
		assert.Equal(t, 1, s.AvailableCount)
	}
}

func TestAggregateManualBlocksCount(t *testing.T) {
	d := doc("u1")
	d.ManualBlocks = []model.TimeBlock{block(at(9, 0), at(9, 30))}

	slots := Aggregate(at(9, 0), at(10, 0), 30*time.Minute,
		[]string{"u1"}, map[string]*model.AvailabilityDoc{"u1": d})

	require.Len(t, slots, 2)
	assert.Equal(t, 0, slots[0].AvailableCount)
	assert.Equal(t, 1, slots[1].AvailableCount)
}

func TestAggregateMonotonicity(t *testing.T) {
	// Adding a busy block can only lower (or keep) each slot's count.
	participants := []string{"p1", "p2", "p3"}
	before := Aggregate(at(8, 0), at(18, 0), 30*time.Minute, participants,
		map[string]*model.AvailabilityDoc{
			"p1": doc("p1", block(at(9, 0), at(11, 0))),
			"p2": doc("p2"),
			"p3": doc("p3", block(at(14, 0), at(15, 0))),
		},
	)
	after := Aggregate(at(8, 0), at(18, 0), 30*time.Minute, participants,
		map[string]*model.AvailabilityDoc{
			"p1": doc("p1", block(at(9, 0), at(11, 0))),
			"p2": doc("p2", block(at(10, 0), at(16, 0))), // new busy block
			"p3": doc("p3", block(at(14, 0), at(15, 0))),
		},
	)

	require.Equal(t, len(before), len(after))
	for i := range before {
		assert.LessOrEqual(t, after[i].AvailableCount, before[i].AvailableCount, "slot %d", i)
	}
}
