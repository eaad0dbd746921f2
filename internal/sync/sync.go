package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fazamuttaqien/meetsync/internal/bucket"
	"github.com/fazamuttaqien/meetsync/internal/model"
	"github.com/fazamuttaqien/meetsync/pkg/enum"
)

// CalendarResult reports how one calendar fared during a sync.
type CalendarResult struct {
	CalendarID string `json:"calendarId"`
	Label      string `json:"label"`
	EventCount int    `json:"eventCount"`
}

// Result summarizes one completed sync run.
type Result struct {
	Calendars  []CalendarResult `json:"calendars"`
	EventCount int              `json:"eventCount"`
}

// Service pulls events from a user's connected calendar sources and
// replaces the month buckets covering the requested window.
type Service struct {
	db    *sqlx.DB
	store *bucket.Store
}

func NewService(db *sqlx.DB, store *bucket.Store) *Service {
	return &Service{db: db, store: store}
}

// SyncUserCalendars fetches every connected integration's events for
// [rangeStart, rangeEnd), normalizes them, and writes all touched buckets in
// one pass. A provider failure aborts the run before anything is written, so
// a broken feed cannot wipe buckets that a healthy source still covers.
// Bucket writes themselves are per-month and not rolled back on a late
// failure; readers tolerate that window.
func (s *Service) SyncUserCalendars(ctx context.Context, uid string, rangeStart, rangeEnd time.Time) (*Result, error) {
	integrations := []model.Integration{}
	err := s.db.SelectContext(ctx, &integrations,
		`SELECT * FROM integrations WHERE user_id = $1 AND is_connected = TRUE;`, uid)
	if err != nil {
		return nil, fmt.Errorf("load integrations: %w", err)
	}

	result := &Result{Calendars: []CalendarResult{}}
	allEvents := []model.CalendarEvent{}

	for _, integration := range integrations {
		provider, err := providerFor(ctx, integration)
		if err != nil {
			return nil, err
		}

		calendars, err := provider.ListCalendars(ctx)
		if err != nil {
			return nil, err
		}

		for _, cal := range calendars {
			raws, err := provider.FetchRawEvents(ctx, cal.ID, rangeStart, rangeEnd)
			if err != nil {
				return nil, err
			}

			for _, raw := range raws {
				allEvents = append(allEvents, normalizeEvent(raw, cal))
			}

			result.Calendars = append(result.Calendars, CalendarResult{
				CalendarID: cal.ID,
				Label:      cal.Label,
				EventCount: len(raws),
			})
			result.EventCount += len(raws)
		}
	}

	if err := s.store.WriteBuckets(ctx, uid, allEvents, rangeStart, rangeEnd); err != nil {
		return nil, err
	}

	slog.Info("calendar sync complete",
		"uid", uid,
		"calendars", len(result.Calendars),
		"events", result.EventCount,
		"rangeStart", rangeStart.Format(time.RFC3339),
		"rangeEnd", rangeEnd.Format(time.RFC3339),
	)
	return result, nil
}

func providerFor(ctx context.Context, integration model.Integration) (Provider, error) {
	switch integration.AppType {
	case enum.AppGoogleCalendar:
		return NewGoogleProvider(ctx, integration)
	case enum.AppIcsFeed:
		if !integration.FeedURL.Valid || integration.FeedURL.String == "" {
			return nil, fmt.Errorf("ics integration %s has no feed url", integration.ID)
		}
		return NewIcsProvider(integration.FeedURL.String, integration.Label.String), nil
	default:
		return nil, fmt.Errorf("unsupported integration app type %s", integration.AppType)
	}
}
