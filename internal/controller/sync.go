package controller

import (
	"net/http"

	"github.com/fazamuttaqien/meetsync/helper"
	"github.com/fazamuttaqien/meetsync/internal/dto"
	"github.com/fazamuttaqien/meetsync/middleware"
	appError "github.com/fazamuttaqien/meetsync/pkg/app-error"
	"github.com/fazamuttaqien/meetsync/pkg/enum"
	"github.com/fazamuttaqien/meetsync/pkg/validator"
)

// POST /sync
//
// Pulls the caller's connected calendars into the bucket store for the
// requested window. Synchronous: the response carries per-calendar counts.
func (s *Controller) SyncCalendars(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		appError.WriteError(w, appError.NewUnauthorizedError(nil))
		return
	}

	dto, ok := validator.GetValidatedDTOFromContext[dto.SyncDto](ctx)
	if !ok {
		appError.WriteError(w, appError.NewAppError(enum.InternalServerError, "Validated DTO not found in context", nil))
		return
	}

	result, err := s.syncer.SyncUserCalendars(ctx, userID, dto.RangeStart, dto.RangeEnd)
	if err != nil {
		appError.WriteError(w, appError.NewAppError(enum.SyncFailed, "Calendar sync failed", err))
		return
	}

	response := map[string]any{
		"message": "Calendars synced successfully",
		"data":    result,
	}
	helper.ResponseJson(w, http.StatusOK, response)
}
