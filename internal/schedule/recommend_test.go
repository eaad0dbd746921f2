package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fazamuttaqien/meetsync/internal/interval"
	"github.com/fazamuttaqien/meetsync/internal/model"
	"github.com/fazamuttaqien/meetsync/pkg/enum"
)

func recommendInput(windowStart, windowEnd time.Time, participants []string, docs map[string]*model.AvailabilityDoc) RecommendInput {
	return RecommendInput{
		Duration:     time.Hour,
		Slots:        Aggregate(windowStart, windowEnd, 30*time.Minute, participants, docs),
		MeetingEnd:   windowEnd,
		Participants: participants,
		Docs:         docs,
		Now:          windowStart,
		Location:     time.UTC,
	}
}

func TestRecommendInputErrors(t *testing.T) {
	valid := recommendInput(at(9, 0), at(17, 0), []string{"u1"},
		map[string]*model.AvailabilityDoc{"u1": doc("u1")})

	t.Run("invalid duration", func(t *testing.T) {
		in := valid
		in.Duration = 0
		_, reason := Recommend(in)
		assert.Equal(t, enum.ReasonInvalidDuration, reason)
		assert.True(t, reason.IsInputError())
	})

	t.Run("no participants", func(t *testing.T) {
		in := valid
		in.Participants = nil
		_, reason := Recommend(in)
		assert.Equal(t, enum.ReasonNoParticipants, reason)
		assert.True(t, reason.IsInputError())
	})

	t.Run("no slots", func(t *testing.T) {
		in := valid
		in.Slots = nil
		_, reason := Recommend(in)
		assert.Equal(t, enum.ReasonNoSlots, reason)
		assert.False(t, reason.IsInputError())
	})
}

func TestRecommendNoTruncatedWindows(t *testing.T) {
	// Three participants share only a 45-minute free gap; a 60-minute
	// request must come back empty rather than truncated to 45 minutes.
	participants := []string{"p1", "p2", "p3"}
	docs := map[string]*model.AvailabilityDoc{
		// Everyone is busy outside [10:00, 10:45).
		"p1": doc("p1", block(at(9, 0), at(10, 0)), block(at(10, 45), at(17, 0))),
		"p2": doc("p2", block(at(9, 0), at(10, 0)), block(at(10, 45), at(17, 0))),
		"p3": doc("p3", block(at(9, 0), at(10, 0)), block(at(10, 45), at(17, 0))),
	}

	in := recommendInput(at(9, 0), at(17, 0), participants, docs)
	windows, reason := Recommend(in)
	require.Empty(t, reason)

	for _, w := range windows {
		assert.Equal(t, time.Hour, w.EndTime.Sub(w.StartTime))
		// Nobody can actually attend a full hour.
		assert.Less(t, w.AvailableCount, 3)
	}
}

func TestRecommendAllBusyStillRanksByCount(t *testing.T) {
	// A fully blocked calendar is "computed zero availability", not an
	// error: candidates survive with count 0.
	docs := map[string]*model.AvailabilityDoc{
		"u1": doc("u1", block(at(9, 0), at(17, 0))),
	}
	in := recommendInput(at(9, 0), at(17, 0), []string{"u1"}, docs)

	windows, reason := Recommend(in)
	require.Empty(t, reason)
	require.NotEmpty(t, windows)
	assert.Equal(t, 0, windows[0].AvailableCount)
}

func TestRecommendRanking(t *testing.T) {
	// p2 is busy in the morning, so afternoon windows carry count 2 and
	// must win over earlier count-1 windows regardless of proximity to now.
	participants := []string{"p1", "p2"}
	docs := map[string]*model.AvailabilityDoc{
		"p1": doc("p1"),
		"p2": doc("p2", block(at(9, 0), at(13, 0))),
	}

	in := recommendInput(at(9, 0), at(17, 0), participants, docs)
	in.Now = at(9, 0)

	windows, reason := Recommend(in)
	require.Empty(t, reason)
	require.Len(t, windows, 3)

	for _, w := range windows {
		assert.Equal(t, 2, w.AvailableCount)
		assert.False(t, w.StartTime.Before(at(13, 0)))
	}
	// Ties on count break toward "now": 13:00 is the closest surviving start.
	assert.Equal(t, at(13, 0), windows[0].StartTime)
}

func TestRecommendProximityTieBreak(t *testing.T) {
	docs := map[string]*model.AvailabilityDoc{"u1": doc("u1")}
	in := recommendInput(at(9, 0), at(17, 0), []string{"u1"}, docs)
	in.Now = at(12, 10)

	windows, reason := Recommend(in)
	require.Empty(t, reason)
	require.NotEmpty(t, windows)
	// All candidates tie on count; the 12:00 start is nearest to 12:10.
	assert.Equal(t, at(12, 0), windows[0].StartTime)
}

func TestRecommendationsNeverOverlap(t *testing.T) {
	docs := map[string]*model.AvailabilityDoc{"u1": doc("u1")}
	in := recommendInput(at(9, 0), at(17, 0), []string{"u1"}, docs)

	windows, reason := Recommend(in)
	require.Empty(t, reason)
	require.Len(t, windows, 3)

	for i := range windows {
		for j := i + 1; j < len(windows); j++ {
			assert.False(t, interval.Overlaps(
				windows[i].StartTime, windows[i].EndTime,
				windows[j].StartTime, windows[j].EndTime,
			), "windows %d and %d overlap", i, j)
		}
	}
}

func TestRecommendActiveHoursPolicy(t *testing.T) {
	docs := map[string]*model.AvailabilityDoc{"u1": doc("u1")}

	t.Run("early starts are rejected", func(t *testing.T) {
		// Window [06:00, 09:00): every candidate starts before 09:00 local.
		in := recommendInput(at(6, 0), at(9, 0), []string{"u1"}, docs)
		windows, reason := Recommend(in)
		assert.Empty(t, windows)
		assert.Equal(t, enum.ReasonNoCandidates, reason)
	})

	t.Run("spillover ending by 02:00 is allowed", func(t *testing.T) {
		in := recommendInput(at(22, 0), at(26, 0), []string{"u1"}, docs)
		in.Duration = 3 * time.Hour
		in.Now = at(22, 0)

		windows, reason := Recommend(in)
		require.Empty(t, reason)
		require.NotEmpty(t, windows)
		// Starts up to 23:00 keep the end at or before 02:00 next day; the
		// one closest to now wins.
		assert.Equal(t, at(22, 0), windows[0].StartTime)
	})

	t.Run("spillover ending after 02:00 is rejected", func(t *testing.T) {
		in := recommendInput(at(23, 30), at(28, 0), []string{"u1"}, docs)
		in.Duration = 3 * time.Hour

		windows, reason := Recommend(in)
		assert.Empty(t, windows)
		assert.Equal(t, enum.ReasonNoCandidates, reason)
	})
}

func TestRecommendRespectsMeetingEnd(t *testing.T) {
	docs := map[string]*model.AvailabilityDoc{"u1": doc("u1")}
	in := recommendInput(at(9, 0), at(10, 0), []string{"u1"}, docs)
	in.Duration = 2 * time.Hour

	windows, reason := Recommend(in)
	assert.Empty(t, windows)
	assert.Equal(t, enum.ReasonNoCandidates, reason)
}
