package controller

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fazamuttaqien/meetsync/helper"
	"github.com/fazamuttaqien/meetsync/internal/dto"
	"github.com/fazamuttaqien/meetsync/internal/interval"
	"github.com/fazamuttaqien/meetsync/internal/model"
	"github.com/fazamuttaqien/meetsync/internal/schedule"
	"github.com/fazamuttaqien/meetsync/middleware"
	appError "github.com/fazamuttaqien/meetsync/pkg/app-error"
	"github.com/fazamuttaqien/meetsync/pkg/enum"
	"github.com/fazamuttaqien/meetsync/pkg/validator"
)

// GET /meetings/{meetingId}/availability
//
// Optional query params: granularity (minutes), rangeStart/rangeEnd
// (RFC3339) to aggregate a narrower window than the meeting's own.
func (a *Controller) GetMeetingAvailability(w http.ResponseWriter, r *http.Request) {
	meetingID := chi.URLParam(r, "meetingId")
	if meetingID == "" {
		appError.WriteError(w, appError.NewAppError(enum.BadRequest, "Missing meetingId in path", nil))
		return
	}

	meeting, err := a.fetchMeeting(r, meetingID)
	if err != nil {
		appError.WriteError(w, err)
		return
	}

	rangeStart, rangeEnd, err := windowFromQuery(r, meeting)
	if err != nil {
		appError.WriteError(w, err)
		return
	}

	granularity, err := durationQueryParam(r, "granularity", schedule.DefaultGranularity)
	if err != nil {
		appError.WriteError(w, err)
		return
	}

	docs, participants, err := a.loadAvailabilityDocs(r, meeting, rangeStart, rangeEnd)
	if err != nil {
		appError.WriteError(w, err)
		return
	}

	slots := schedule.Aggregate(rangeStart, rangeEnd, granularity, meeting.Participants, docs)

	response := map[string]any{
		"message": "Availability fetched successfully",
		"data": MeetingAvailability{
			MeetingID:    meeting.ID,
			RangeStart:   rangeStart,
			RangeEnd:     rangeEnd,
			Granularity:  int(granularity / time.Minute),
			Participants: participants,
			Slots:        slots,
		},
	}
	helper.ResponseJson(w, http.StatusOK, response)
}

// GET /meetings/{meetingId}/recommendations
//
// Required query param: duration (minutes). Empty results with a reason are
// valid responses; only rejected input produces an error status.
func (a *Controller) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	meetingID := chi.URLParam(r, "meetingId")
	if meetingID == "" {
		appError.WriteError(w, appError.NewAppError(enum.BadRequest, "Missing meetingId in path", nil))
		return
	}

	meeting, err := a.fetchMeeting(r, meetingID)
	if err != nil {
		appError.WriteError(w, err)
		return
	}

	duration, err := durationQueryParam(r, "duration", 0)
	if err != nil {
		appError.WriteError(w, err)
		return
	}

	docs, _, err := a.loadAvailabilityDocs(r, meeting, meeting.StartTime, meeting.EndTime)
	if err != nil {
		appError.WriteError(w, err)
		return
	}

	slots := schedule.Aggregate(meeting.StartTime, meeting.EndTime, schedule.DefaultGranularity, meeting.Participants, docs)

	windows, reason := schedule.Recommend(schedule.RecommendInput{
		Duration:     duration,
		Slots:        slots,
		MeetingEnd:   meeting.EndTime,
		Participants: meeting.Participants,
		Docs:         docs,
		Now:          time.Now(),
		Location:     meeting.Location(),
	})
	if reason.IsInputError() {
		appError.WriteError(w, appError.NewAppError(enum.BadRequest, "Invalid recommendation request: "+reason.String(), nil))
		return
	}

	data := map[string]any{"recommendations": windows}
	if len(windows) == 0 {
		data["reason"] = reason
	}

	response := map[string]any{
		"message": "Recommendations computed successfully",
		"data":    data,
	}
	helper.ResponseJson(w, http.StatusOK, response)
}

// PUT /meetings/{meetingId}/blocks
//
// Replaces the caller's manually declared blocks for the meeting. Malformed
// blocks are dropped rather than rejected, and overlapping ones merge.
func (a *Controller) SaveManualBlocks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		appError.WriteError(w, appError.NewUnauthorizedError(nil))
		return
	}

	meetingID := chi.URLParam(r, "meetingId")
	if meetingID == "" {
		appError.WriteError(w, appError.NewAppError(enum.BadRequest, "Missing meetingId in path", nil))
		return
	}

	dto, ok := validator.GetValidatedDTOFromContext[dto.SaveManualBlocksDto](ctx)
	if !ok {
		appError.WriteError(w, appError.NewAppError(enum.InternalServerError, "Validated DTO not found in context", nil))
		return
	}

	if err := a.requireParticipant(r, meetingID, userID); err != nil {
		appError.WriteError(w, err)
		return
	}

	blocks := make([]model.TimeBlock, 0, len(dto.Blocks))
	for _, b := range dto.Blocks {
		blocks = append(blocks, model.TimeBlock{StartTime: b.StartTime, EndTime: b.EndTime})
	}
	blocks = interval.NormalizeBlocks(blocks)

	if err := a.upsertManualBlocks(r, meetingID, userID, blocks); err != nil {
		appError.WriteError(w, err)
		return
	}

	response := map[string]any{
		"message": "Manual blocks saved successfully",
		"blocks":  blocks,
	}
	helper.ResponseJson(w, http.StatusOK, response)
}

// GET /meetings/{meetingId}/blocks
//
// Returns the caller's stored manual blocks, materialized into selectable
// slots over the meeting window. Optional query param: slotDuration
// (minutes).
func (a *Controller) GetManualBlocks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		appError.WriteError(w, appError.NewUnauthorizedError(nil))
		return
	}

	meetingID := chi.URLParam(r, "meetingId")
	if meetingID == "" {
		appError.WriteError(w, appError.NewAppError(enum.BadRequest, "Missing meetingId in path", nil))
		return
	}

	meeting, err := a.fetchMeeting(r, meetingID)
	if err != nil {
		appError.WriteError(w, err)
		return
	}

	slotDuration, err := durationQueryParam(r, "slotDuration", schedule.DefaultGranularity)
	if err != nil {
		appError.WriteError(w, err)
		return
	}

	blocks, _, err := a.manualBlocksFor(r, meetingID, userID)
	if err != nil {
		appError.WriteError(w, err)
		return
	}

	selection := schedule.SelectionFromBlocks(blocks, slotDuration, meeting.StartTime, meeting.EndTime)

	response := map[string]any{
		"message": "Manual blocks fetched successfully",
		"data": map[string]any{
			"blocks":  blocks,
			"slotIds": selection.SlotIDs(),
		},
	}
	helper.ResponseJson(w, http.StatusOK, response)
}
