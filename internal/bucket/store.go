package bucket

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jmoiron/sqlx"

	"github.com/fazamuttaqien/meetsync/internal/interval"
	"github.com/fazamuttaqien/meetsync/internal/model"
)

// cacheSize bounds the process-local bucket cache. One entry holds one
// month of one user's events, so this covers hundreds of active users.
const cacheSize = 1024

// Store partitions each user's calendar events into month buckets so that
// reading a window costs one lookup per month, not a scan of all history.
// A process-scoped cache keyed by (uid, bucketKey) fronts the database and
// is invalidated synchronously by writes to the same key. It may go stale
// across process restarts; no cross-process coherence is attempted.
type Store struct {
	db    *sqlx.DB
	cache *lru.Cache[string, []model.CalendarEvent]
}

func NewStore(db *sqlx.DB) *Store {
	cache, err := lru.New[string, []model.CalendarEvent](cacheSize)
	if err != nil {
		// Only possible with a non-positive size.
		panic(err)
	}
	return &Store{db: db, cache: cache}
}

func cacheKey(uid, bucketKey string) string {
	return uid + "|" + bucketKey
}

// GroupEvents partitions events into the month buckets touched by the sync
// window. An event spanning a month boundary lands in every month its
// [StartTime, EndTime) interval intersects. Months outside the window are
// never written: a sync owns exactly the buckets its range touches, and
// writing beyond it would wipe data from earlier syncs.
func GroupEvents(events []model.CalendarEvent, rangeStart, rangeEnd time.Time) map[string][]model.CalendarEvent {
	grouped := make(map[string][]model.CalendarEvent)
	for _, key := range KeysForRange(rangeStart, rangeEnd) {
		grouped[key] = []model.CalendarEvent{}
	}

	for _, ev := range events {
		for _, key := range KeysForEvent(ev.StartTime, ev.EndTime) {
			if _, ok := grouped[key]; ok {
				grouped[key] = append(grouped[key], ev)
			}
		}
	}
	return grouped
}

// WriteBuckets overwrites every bucket touched by [rangeStart, rangeEnd]
// with the new event list, including buckets that end up empty. This is a
// destructive replace, not a merge: after a sync completes, its window has
// exactly the events it delivered. Each touched cache entry is invalidated
// as soon as its row is written.
//
// Writes are deliberately per-bucket rather than one transaction; a sync
// that dies midway leaves earlier months updated and later months stale,
// and readers must tolerate that window.
func (s *Store) WriteBuckets(ctx context.Context, uid string, events []model.CalendarEvent, rangeStart, rangeEnd time.Time) error {
	grouped := GroupEvents(events, rangeStart, rangeEnd)

	query := `
		INSERT INTO event_buckets (uid, bucket_key, events, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (uid, bucket_key)
		DO UPDATE SET events = EXCLUDED.events, updated_at = NOW();
	`

	for _, key := range KeysForRange(rangeStart, rangeEnd) {
		payload, err := json.Marshal(grouped[key])
		if err != nil {
			return fmt.Errorf("marshal bucket %s: %w", key, err)
		}
		if _, err := s.db.ExecContext(ctx, query, uid, key, payload); err != nil {
			return fmt.Errorf("write bucket %s: %w", key, err)
		}
		s.cache.Remove(cacheKey(uid, key))
	}
	return nil
}

// ReadBuckets returns the user's events intersecting [rangeStart, rangeEnd),
// deduplicated by (calendarId, eventId) since a month-spanning event sits in
// more than one bucket. A bucket that was never synced reads as empty, not
// as an error: absence means "no data", and the aggregator decides how to
// interpret it.
func (s *Store) ReadBuckets(ctx context.Context, uid string, rangeStart, rangeEnd time.Time) ([]model.CalendarEvent, error) {
	lists := make([][]model.CalendarEvent, 0)

	for _, key := range KeysForRange(rangeStart, rangeEnd) {
		if events, ok := s.cache.Get(cacheKey(uid, key)); ok {
			lists = append(lists, events)
			continue
		}

		var payload []byte
		err := s.db.GetContext(ctx, &payload,
			`SELECT events FROM event_buckets WHERE uid = $1 AND bucket_key = $2;`,
			uid, key,
		)
		if err != nil {
			if err == sql.ErrNoRows {
				s.cache.Add(cacheKey(uid, key), []model.CalendarEvent{})
				continue
			}
			return nil, fmt.Errorf("read bucket %s: %w", key, err)
		}

		var events []model.CalendarEvent
		if err := json.Unmarshal(payload, &events); err != nil {
			return nil, fmt.Errorf("decode bucket %s: %w", key, err)
		}

		s.cache.Add(cacheKey(uid, key), events)
		lists = append(lists, events)
	}

	return CollectEvents(lists, rangeStart, rangeEnd), nil
}

// HasSyncedBuckets reports whether any bucket exists for the user at all.
// Used to distinguish "no response yet" from "synced but free".
func (s *Store) HasSyncedBuckets(ctx context.Context, uid string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM event_buckets WHERE uid = $1);`, uid)
	if err != nil {
		return false, fmt.Errorf("check synced buckets: %w", err)
	}
	return exists, nil
}

// CollectEvents flattens bucket contents into a single list: duplicates
// (same calendarId and eventId seen in an earlier bucket) are dropped, and
// only events whose interval intersects [rangeStart, rangeEnd) survive.
func CollectEvents(buckets [][]model.CalendarEvent, rangeStart, rangeEnd time.Time) []model.CalendarEvent {
	seen := make(map[string]struct{})
	out := []model.CalendarEvent{}

	for _, events := range buckets {
		for _, ev := range events {
			key := ev.CalendarID + "\x00" + ev.ID
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			if interval.Overlaps(ev.StartTime, ev.EndTime, rangeStart, rangeEnd) {
				out = append(out, ev)
			}
		}
	}
	return out
}
