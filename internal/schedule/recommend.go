package schedule

import (
	"sort"
	"time"

	"github.com/fazamuttaqien/meetsync/internal/interval"
	"github.com/fazamuttaqien/meetsync/internal/model"
	"github.com/fazamuttaqien/meetsync/pkg/enum"
)

// maxRecommendations bounds the winner list; this is a top-K suggestion,
// not a scheduling solver.
const maxRecommendations = 3

const (
	activeHoursStart   = 9 * time.Hour // windows must start at or after 09:00 local
	activeHoursLateEnd = 2 * time.Hour // spillover windows must end by 02:00 the next day
)

// RecommendInput carries everything the recommendation engine needs.
// Slots must be the dense grid produced by Aggregate for the same meeting
// window; candidate start times are exactly those slot starts.
type RecommendInput struct {
	Duration     time.Duration
	Slots        []model.TimeSlot
	MeetingEnd   time.Time
	Participants []string
	Docs         map[string]*model.AvailabilityDoc
	Now          time.Time
	Location     *time.Location // local clock for the active-hours policy
}

type candidate struct {
	start, end time.Time
	count      int
}

// Recommend picks up to three non-overlapping meeting windows of the given
// duration, ranked by participant count (desc), then distance from Now
// (asc), then start time (asc).
//
// The returned reason is empty on success. Input problems report
// INVALID_DURATION or NO_PARTICIPANTS; NO_SLOTS and NO_CANDIDATES are valid
// empty results so callers can distinguish "nothing fits" from "bad call".
func Recommend(in RecommendInput) ([]model.RecommendedWindow, enum.RecommendReason) {
	if in.Duration <= 0 {
		return nil, enum.ReasonInvalidDuration
	}
	if len(in.Participants) == 0 {
		return nil, enum.ReasonNoParticipants
	}
	if len(in.Slots) == 0 {
		return nil, enum.ReasonNoSlots
	}

	loc := in.Location
	if loc == nil {
		loc = in.Now.Location()
	}

	candidates := make([]candidate, 0, len(in.Slots))
	for _, slot := range in.Slots {
		start := slot.StartTime
		end := start.Add(in.Duration)
		if end.After(in.MeetingEnd) {
			continue
		}
		if !withinActiveHours(start, end, loc) {
			continue
		}

		// Re-test every participant against the full window; the duration
		// may span several grid slots, so slot counts cannot be summed.
		count := 0
		for _, uid := range in.Participants {
			if isAvailable(in.Docs[uid], start, end) {
				count++
			}
		}
		candidates = append(candidates, candidate{start: start, end: end, count: count})
	}

	if len(candidates) == 0 {
		return nil, enum.ReasonNoCandidates
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.count != b.count {
			return a.count > b.count
		}
		da, db := absDuration(a.start.Sub(in.Now)), absDuration(b.start.Sub(in.Now))
		if da != db {
			return da < db
		}
		return a.start.Before(b.start)
	})

	windows := make([]model.RecommendedWindow, 0, maxRecommendations)
	for _, c := range candidates {
		if len(windows) == maxRecommendations {
			break
		}
		if overlapsAny(c, windows) {
			continue
		}
		windows = append(windows, model.RecommendedWindow{
			StartTime:         c.start,
			EndTime:           c.end,
			AvailableCount:    c.count,
			TotalParticipants: len(in.Participants),
		})
	}
	return windows, ""
}

func overlapsAny(c candidate, selected []model.RecommendedWindow) bool {
	for _, w := range selected {
		if interval.Overlaps(c.start, c.end, w.StartTime, w.EndTime) {
			return true
		}
	}
	return false
}

// withinActiveHours enforces the waking-hours policy on the viewer's local
// clock: a window starts at or after 09:00; one that runs into the next
// calendar day must end by 02:00; anything spanning further is rejected.
func withinActiveHours(start, end time.Time, loc *time.Location) bool {
	localStart := start.In(loc)
	localEnd := end.In(loc)

	if clockOf(localStart) < activeHoursStart {
		return false
	}

	switch dayBoundaries(localStart, localEnd, loc) {
	case 0:
		return true
	case 1:
		return clockOf(localEnd) <= activeHoursLateEnd
	default:
		return false
	}
}

// clockOf returns the wall-clock offset from local midnight.
func clockOf(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second
}

// dayBoundaries counts how many local calendar-day boundaries [start, end)
// crosses. An end exactly at midnight counts as crossing into that day,
// which the 02:00 spillover rule then permits.
func dayBoundaries(start, end time.Time, loc *time.Location) int {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)

	days := 0
	for d := startDay; d.Before(endDay) && days <= 2; d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
