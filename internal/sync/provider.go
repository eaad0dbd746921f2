package sync

import (
	"context"
	"time"

	"github.com/fazamuttaqien/meetsync/internal/model"
)

// RawEvent is the provider-neutral shape of one fetched calendar entry,
// before normalization into model.CalendarEvent.
type RawEvent struct {
	ID          string
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	IsAllDay    bool
	// Transparent means the provider marked the event as not blocking time
	// ("free"). Such events sync but never produce busy blocks.
	Transparent bool
}

// Calendar identifies one calendar within a connected source.
type Calendar struct {
	ID    string
	Label string
	Color string
}

// Provider yields calendars and raw events for one connected integration.
// Implementations wrap the external API; failures propagate unchanged so
// the sync entry point can report them.
type Provider interface {
	ListCalendars(ctx context.Context) ([]Calendar, error)
	FetchRawEvents(ctx context.Context, calendarID string, rangeStart, rangeEnd time.Time) ([]RawEvent, error)
}

// normalizeEvent maps a RawEvent into the stored CalendarEvent form.
func normalizeEvent(raw RawEvent, cal Calendar) model.CalendarEvent {
	return model.CalendarEvent{
		ID:            raw.ID,
		CalendarID:    cal.ID,
		Title:         raw.Title,
		Description:   raw.Description,
		Location:      raw.Location,
		StartTime:     raw.Start,
		EndTime:       raw.End,
		IsAllDay:      raw.IsAllDay,
		IsBusy:        !raw.Transparent,
		CalendarLabel: cal.Label,
		CalendarColor: cal.Color,
	}
}
