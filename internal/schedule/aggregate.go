package schedule

import (
	"time"

	"github.com/fazamuttaqien/meetsync/internal/interval"
	"github.com/fazamuttaqien/meetsync/internal/model"
)

// DefaultGranularity is the heat-map cell size used when the caller does
// not ask for a specific one.
const DefaultGranularity = 30 * time.Minute

// Aggregate computes the availability heat-map for one meeting window.
//
// Every slot start in [meetingStart, meetingEnd) stepped by granularity
// produces one TimeSlot; a trailing slot that would poke past the window is
// truncated away. The output is dense and chronological: slots where
// nobody is free are still emitted so the UI can paint them.
//
// docs maps participant uid to their availability doc; a participant with
// no doc has not responded yet and counts as available (absence of data
// must not block scheduling). With zero participants every slot reports
// availability 0 and is never optimal.
func Aggregate(meetingStart, meetingEnd time.Time, granularity time.Duration, participants []string, docs map[string]*model.AvailabilityDoc) []model.TimeSlot {
	if granularity <= 0 {
		granularity = DefaultGranularity
	}

	total := len(participants)
	denominator := float64(max(1, total))

	slots := []model.TimeSlot{}
	for t := meetingStart; !t.Add(granularity).After(meetingEnd); t = t.Add(granularity) {
		end := t.Add(granularity)

		count := 0
		for _, uid := range participants {
			if isAvailable(docs[uid], t, end) {
				count++
			}
		}

		slots = append(slots, model.TimeSlot{
			StartTime:      t,
			EndTime:        end,
			AvailableCount: count,
			Availability:   float64(count) / denominator,
			IsOptimal:      total > 0 && count == total,
		})
	}
	return slots
}

// isAvailable reports whether the participant is free during [start, end).
// A nil doc means no response yet, which resolves to available. Malformed
// blocks (end <= start) are inert and never block anything.
func isAvailable(doc *model.AvailabilityDoc, start, end time.Time) bool {
	if doc == nil {
		return true
	}
	for _, b := range doc.BusyBlocks {
		if blocked(b, start, end) {
			return false
		}
	}
	for _, b := range doc.ManualBlocks {
		if blocked(b, start, end) {
			return false
		}
	}
	return true
}

func blocked(b model.TimeBlock, start, end time.Time) bool {
	return b.Valid() && interval.Overlaps(b.StartTime, b.EndTime, start, end)
}
