package dto

import (
	"time"
)

// --- Auth DTO ---

type RegisterDto struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginDto struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// --- Meeting DTO ---

type CreateMeetingDto struct {
	Title     string    `json:"title" validate:"required"`
	StartTime time.Time `json:"startTime" validate:"required"`
	EndTime   time.Time `json:"endTime" validate:"required,gtfield=StartTime"`
	Timezone  string    `json:"timezone" validate:"omitempty,timezone"`
}

// MeetingIdDto is used for path parameters like /meetings/{meetingId}
type MeetingIdDto struct {
	MeetingID string `param:"meetingId" validate:"required,uuid4"`
}

// ShareCodeDto is used for path parameters like /meetings/join/{shareCode}
type ShareCodeDto struct {
	ShareCode string `param:"shareCode" validate:"required"`
}

// --- Availability DTO ---

type TimeBlockDto struct {
	StartTime time.Time `json:"startTime" validate:"required"`
	EndTime   time.Time `json:"endTime" validate:"required,gtfield=StartTime"`
}

// SaveManualBlocksDto replaces a participant's manually declared blocks for
// one meeting. An empty list clears them.
type SaveManualBlocksDto struct {
	Blocks []TimeBlockDto `json:"blocks" validate:"dive"`
}

// --- Sync DTO ---

type SyncDto struct {
	RangeStart time.Time `json:"rangeStart" validate:"required"`
	RangeEnd   time.Time `json:"rangeEnd" validate:"required,gtfield=RangeStart"`
}

// --- Integration DTO ---

type CreateIcsIntegrationDto struct {
	FeedURL string `json:"feedUrl" validate:"required,url"`
	Label   string `json:"label" validate:"omitempty,max=100"`
}
