package controller

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/fazamuttaqien/meetsync/helper"
	"github.com/fazamuttaqien/meetsync/internal/dto"
	"github.com/fazamuttaqien/meetsync/internal/model"
	"github.com/fazamuttaqien/meetsync/middleware"
	appError "github.com/fazamuttaqien/meetsync/pkg/app-error"
	"github.com/fazamuttaqien/meetsync/pkg/enum"
	"github.com/fazamuttaqien/meetsync/pkg/validator"
)

// POST /meetings
func (m *Controller) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		appError.WriteError(w, appError.NewUnauthorizedError(nil))
		return
	}

	dto, ok := validator.GetValidatedDTOFromContext[dto.CreateMeetingDto](ctx)
	if !ok {
		appError.WriteError(w, appError.NewAppError(enum.InternalServerError, "Validated DTO not found in context", nil))
		return
	}

	shareCode := helper.Slugify(dto.Title)

	timezone := dto.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	// Meeting and its creator-participant row land together or not at all.
	var createdMeeting model.Meeting
	err := m.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		insertQuery := `
			INSERT INTO meetings (title, created_by, share_code, start_time, end_time, timezone, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
			RETURNING *;
		`
		if err := tx.GetContext(ctx, &createdMeeting, insertQuery,
			dto.Title, userID, shareCode, dto.StartTime, dto.EndTime, timezone); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO meeting_participants (meeting_id, uid, joined_at) VALUES ($1, $2, NOW());`,
			createdMeeting.ID, userID)
		return err
	})
	if err != nil {
		appError.WriteError(w, appError.NewAppError(enum.InternalServerError, "Failed to save meeting record", err))
		return
	}
	createdMeeting.Participants = []string{userID}

	response := map[string]any{
		"message": "Meeting created successfully",
		"meeting": createdMeeting,
	}
	helper.ResponseJson(w, http.StatusCreated, response)
}

// GET /meetings
func (m *Controller) GetUserMeetings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		appError.WriteError(w, appError.NewUnauthorizedError(nil))
		return
	}

	// Get filter from query param, default to UPCOMING
	filterQuery := r.URL.Query().Get("filter")
	var filter enum.MeetingFilter

	switch strings.ToUpper(filterQuery) {
	case string(enum.MeetingFilterPast):
		filter = enum.MeetingFilterPast
	default:
		// Default to UPCOMING if empty or invalid
		filter = enum.MeetingFilterUpcoming
	}

	baseQuery := `
		SELECT m.*
		FROM meetings m
		JOIN meeting_participants mp ON mp.meeting_id = m.id
		WHERE mp.uid = $1
	`

	filterClause := ""
	orderByClause := ""
	now := time.Now()

	switch filter {
	case enum.MeetingFilterPast:
		filterClause = " AND m.end_time <= $2"
		orderByClause = " ORDER BY m.start_time DESC"
	default:
		filterClause = " AND m.end_time > $2"
		orderByClause = " ORDER BY m.start_time ASC"
	}

	meetings := []model.Meeting{}
	finalQuery := baseQuery + filterClause + orderByClause + ";"
	err := m.db.SelectContext(ctx, &meetings, finalQuery, userID, now)
	if err != nil {
		appError.WriteError(w, appError.NewAppError(enum.InternalServerError, "Failed to retrieve user meetings", err))
		return
	}

	response := map[string]any{
		"message":  "Meetings fetched successfully",
		"meetings": meetings,
	}
	helper.ResponseJson(w, http.StatusOK, response)
}

// GET /meetings/{meetingId}
func (m *Controller) GetMeeting(w http.ResponseWriter, r *http.Request) {
	meetingID := chi.URLParam(r, "meetingId")
	if meetingID == "" {
		appError.WriteError(w, appError.NewAppError(enum.BadRequest, "Missing meetingId in path", nil))
		return
	}

	meeting, err := m.fetchMeeting(r, meetingID)
	if err != nil {
		appError.WriteError(w, err)
		return
	}

	response := map[string]any{
		"message": "Meeting fetched successfully",
		"meeting": meeting,
	}
	helper.ResponseJson(w, http.StatusOK, response)
}

// POST /meetings/join/{shareCode}
func (m *Controller) JoinMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		appError.WriteError(w, appError.NewUnauthorizedError(nil))
		return
	}

	shareCode := chi.URLParam(r, "shareCode")
	if shareCode == "" {
		appError.WriteError(w, appError.NewAppError(enum.BadRequest, "Missing shareCode in path", nil))
		return
	}

	var meeting model.Meeting
	err := m.db.GetContext(ctx, &meeting,
		`SELECT * FROM meetings WHERE share_code = $1;`, shareCode)
	if err != nil {
		if err == sql.ErrNoRows {
			appError.WriteError(w, appError.NewNotFoundError("Meeting", nil))
			return
		}
		appError.WriteError(w, appError.NewAppError(enum.InternalServerError, "Failed to fetch meeting", err))
		return
	}

	// Joining twice is a no-op, not an error.
	_, err = m.db.ExecContext(ctx, `
		INSERT INTO meeting_participants (meeting_id, uid, joined_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (meeting_id, uid) DO NOTHING;
	`, meeting.ID, userID)
	if err != nil {
		appError.WriteError(w, appError.NewAppError(enum.InternalServerError, "Failed to join meeting", err))
		return
	}

	if err := m.loadParticipants(r, &meeting); err != nil {
		appError.WriteError(w, err)
		return
	}

	response := map[string]any{
		"message": "Joined meeting successfully",
		"meeting": meeting,
	}
	helper.ResponseJson(w, http.StatusOK, response)
}

// DELETE /meetings/{meetingId}
func (m *Controller) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
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

	var createdBy string
	err := m.db.GetContext(ctx, &createdBy,
		`SELECT created_by FROM meetings WHERE id = $1;`, meetingID)
	if err != nil {
		if err == sql.ErrNoRows {
			appError.WriteError(w, appError.NewNotFoundError("Meeting", nil))
			return
		}
		appError.WriteError(w, appError.NewAppError(enum.InternalServerError, "Failed to fetch meeting", err))
		return
	}

	if createdBy != userID {
		appError.WriteError(w, appError.NewAppError(enum.AuthUnauthorizedAccess, "Only the meeting creator can delete it", nil))
		return
	}

	// Participants and availability docs go with the meeting (FK cascade).
	_, err = m.db.ExecContext(ctx, `DELETE FROM meetings WHERE id = $1;`, meetingID)
	if err != nil {
		appError.WriteError(w, appError.NewAppError(enum.InternalServerError, "Failed to delete meeting", err))
		return
	}

	helper.ResponseJson(w, http.StatusOK, helper.SimpleMessage{Message: "Meeting deleted successfully"})
}

// fetchMeeting loads one meeting with its participant list.
func (m *Controller) fetchMeeting(r *http.Request, meetingID string) (*model.Meeting, error) {
	ctx := r.Context()

	var meeting model.Meeting
	err := m.db.GetContext(ctx, &meeting, `SELECT * FROM meetings WHERE id = $1;`, meetingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appError.NewNotFoundError("Meeting", nil)
		}
		return nil, appError.NewAppError(enum.InternalServerError, "Failed to fetch meeting", err)
	}

	if err := m.loadParticipants(r, &meeting); err != nil {
		return nil, err
	}
	return &meeting, nil
}

func (m *Controller) loadParticipants(r *http.Request, meeting *model.Meeting) error {
	participants := []string{}
	err := m.db.SelectContext(r.Context(), &participants,
		`SELECT uid FROM meeting_participants WHERE meeting_id = $1 ORDER BY joined_at ASC;`,
		meeting.ID)
	if err != nil {
		return appError.NewAppError(enum.InternalServerError, "Failed to load participants", err)
	}
	meeting.Participants = participants
	return nil
}
