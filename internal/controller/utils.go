package controller

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fazamuttaqien/meetsync/internal/model"
	"github.com/fazamuttaqien/meetsync/internal/schedule"
	appError "github.com/fazamuttaqien/meetsync/pkg/app-error"
	"github.com/fazamuttaqien/meetsync/pkg/enum"
)

// windowFromQuery resolves the aggregation window: the meeting's own
// [StartTime, EndTime) unless both rangeStart and rangeEnd override it. The
// override is clamped to the meeting window so a caller cannot widen it.
func windowFromQuery(r *http.Request, meeting *model.Meeting) (time.Time, time.Time, error) {
	rangeStart, rangeEnd := meeting.StartTime, meeting.EndTime

	startStr := r.URL.Query().Get("rangeStart")
	endStr := r.URL.Query().Get("rangeEnd")
	if startStr == "" && endStr == "" {
		return rangeStart, rangeEnd, nil
	}

	parsed, err := parseTimeParam(startStr, "rangeStart")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if parsed.After(rangeStart) {
		rangeStart = parsed
	}

	parsed, err = parseTimeParam(endStr, "rangeEnd")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if parsed.Before(rangeEnd) {
		rangeEnd = parsed
	}

	if !rangeEnd.After(rangeStart) {
		return time.Time{}, time.Time{}, appError.NewAppError(enum.BadRequest, "rangeEnd must be after rangeStart", nil)
	}
	return rangeStart, rangeEnd, nil
}

func parseTimeParam(value, name string) (time.Time, error) {
	if value == "" {
		return time.Time{}, appError.NewAppError(enum.BadRequest, fmt.Sprintf("Missing query param %s", name), nil)
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, appError.NewAppError(enum.BadRequest, fmt.Sprintf("Invalid %s, expected RFC3339", name), nil)
	}
	return t, nil
}

// durationQueryParam reads a minutes-valued query param. A zero fallback
// means the param may legitimately be absent; validation of the resulting
// duration is the caller's concern.
func durationQueryParam(r *http.Request, name string, fallback time.Duration) (time.Duration, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return fallback, nil
	}

	minutes, err := strconv.Atoi(value)
	if err != nil {
		return 0, appError.NewAppError(enum.BadRequest, fmt.Sprintf("Invalid %s, expected whole minutes", name), nil)
	}
	return time.Duration(minutes) * time.Minute, nil
}

// loadAvailabilityDocs assembles the aggregator's input for every meeting
// participant. Busy blocks come from the synced buckets at read time; manual
// blocks from the stored doc. A participant with neither a stored doc nor
// any synced bucket has not responded: their doc stays nil and the
// aggregator treats them as available while keeping them in the denominator.
func (c *Controller) loadAvailabilityDocs(r *http.Request, meeting *model.Meeting, rangeStart, rangeEnd time.Time) (map[string]*model.AvailabilityDoc, []ParticipantAvailability, error) {
	ctx := r.Context()

	docs := make(map[string]*model.AvailabilityDoc, len(meeting.Participants))
	statuses := make([]ParticipantAvailability, 0, len(meeting.Participants))

	for _, uid := range meeting.Participants {
		manualBlocks, hasDoc, err := c.manualBlocksFor(r, meeting.ID, uid)
		if err != nil {
			return nil, nil, err
		}

		events, err := c.store.ReadBuckets(ctx, uid, rangeStart, rangeEnd)
		if err != nil {
			return nil, nil, appError.NewAppError(enum.InternalServerError, "Failed to read calendar buckets", err)
		}
		busyBlocks := schedule.DeriveBusyBlocks(events, rangeStart, rangeEnd)

		responded := hasDoc
		if !responded {
			responded, err = c.store.HasSyncedBuckets(ctx, uid)
			if err != nil {
				return nil, nil, appError.NewAppError(enum.InternalServerError, "Failed to check sync state", err)
			}
		}

		status := ParticipantAvailability{
			UID:          uid,
			HasResponded: responded,
			BusyBlocks:   busyBlocks,
			ManualBlocks: manualBlocks,
		}
		statuses = append(statuses, status)

		if responded {
			docs[uid] = &model.AvailabilityDoc{
				UID:          uid,
				BusyBlocks:   busyBlocks,
				ManualBlocks: manualBlocks,
			}
		}
	}

	return docs, statuses, nil
}

// manualBlocksFor loads one participant's stored manual blocks. The second
// return value reports whether a doc row exists at all.
func (c *Controller) manualBlocksFor(r *http.Request, meetingID, uid string) ([]model.TimeBlock, bool, error) {
	var payload []byte
	err := c.db.GetContext(r.Context(), &payload,
		`SELECT manual_blocks FROM availability_docs WHERE meeting_id = $1 AND uid = $2;`,
		meetingID, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return []model.TimeBlock{}, false, nil
		}
		return nil, false, appError.NewAppError(enum.InternalServerError, "Failed to load manual blocks", err)
	}

	blocks := []model.TimeBlock{}
	if err := json.Unmarshal(payload, &blocks); err != nil {
		return nil, false, appError.NewAppError(enum.InternalServerError, "Failed to decode manual blocks", err)
	}
	return blocks, true, nil
}

func (c *Controller) upsertManualBlocks(r *http.Request, meetingID, uid string, blocks []model.TimeBlock) error {
	payload, err := json.Marshal(blocks)
	if err != nil {
		return appError.NewAppError(enum.InternalServerError, "Failed to encode manual blocks", err)
	}

	query := `
		INSERT INTO availability_docs (meeting_id, uid, manual_blocks, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (meeting_id, uid)
		DO UPDATE SET manual_blocks = EXCLUDED.manual_blocks, updated_at = NOW();
	`
	if _, err := c.db.ExecContext(r.Context(), query, meetingID, uid, payload); err != nil {
		return appError.NewAppError(enum.InternalServerError, "Failed to save manual blocks", err)
	}
	return nil
}

func (c *Controller) requireParticipant(r *http.Request, meetingID, uid string) error {
	var isParticipant bool
	err := c.db.GetContext(r.Context(), &isParticipant,
		`SELECT EXISTS(SELECT 1 FROM meeting_participants WHERE meeting_id = $1 AND uid = $2);`,
		meetingID, uid)
	if err != nil {
		return appError.NewAppError(enum.InternalServerError, "Failed to check participation", err)
	}
	if !isParticipant {
		return appError.NewAppError(enum.AuthUnauthorizedAccess, "Caller is not a participant of this meeting", nil)
	}
	return nil
}
