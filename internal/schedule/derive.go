package schedule

import (
	"time"

	"github.com/fazamuttaqien/meetsync/internal/interval"
	"github.com/fazamuttaqien/meetsync/internal/model"
)

// DeriveBusyBlocks converts a user's stored events for a window into the
// intervals during which they are unavailable. Events marked free by the
// provider are skipped; the rest are clamped to [rangeStart, rangeEnd).
// The result is neither sorted nor merged: consumers test membership with
// interval.Overlaps, so merging would only be an optimization.
func DeriveBusyBlocks(events []model.CalendarEvent, rangeStart, rangeEnd time.Time) []model.TimeBlock {
	blocks := make([]model.TimeBlock, 0, len(events))

	for _, ev := range events {
		if !ev.IsBusy {
			continue
		}

		start, end := ev.StartTime, ev.EndTime
		if ev.IsAllDay {
			start, end = allDaySpan(ev)
		}

		block, ok := interval.ClampToRange(model.TimeBlock{StartTime: start, EndTime: end}, rangeStart, rangeEnd)
		if !ok {
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// allDaySpan widens an all-day event to its full calendar-day span in the
// event's own timezone: midnight of the start date up to midnight after the
// last covered date.
func allDaySpan(ev model.CalendarEvent) (time.Time, time.Time) {
	loc := ev.StartTime.Location()

	start := time.Date(ev.StartTime.Year(), ev.StartTime.Month(), ev.StartTime.Day(), 0, 0, 0, 0, loc)

	endDate := ev.EndTime.In(loc)
	end := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, loc)
	if !end.After(start) || end.Before(endDate) {
		// End fell mid-day (or the event carried no usable end): round up to
		// the next midnight so the whole day stays blocked.
		end = end.AddDate(0, 0, 1)
	}
	return start, end
}
