package model

import (
	"database/sql"
	"time"

	"github.com/fazamuttaqien/meetsync/pkg/enum"
)

type User struct {
	ID        string         `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	Username  string         `db:"username" json:"username"`
	Email     string         `db:"email" json:"email"`
	Password  string         `db:"password" json:"-"`
	ImageURL  sql.NullString `db:"image_url" json:"imageUrl"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time      `db:"updated_at" json:"updatedAt"`
}

// Meeting represents the 'meetings' table: a group scheduling window.
// The engine only consumes its [StartTime, EndTime) window and the
// participant set; everything else is display metadata.
type Meeting struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	CreatedBy string    `db:"created_by" json:"createdBy"`
	ShareCode string    `db:"share_code" json:"shareCode"`
	StartTime time.Time `db:"start_time" json:"startTime"`
	EndTime   time.Time `db:"end_time" json:"endTime"`
	Timezone  string    `db:"timezone" json:"timezone"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// Loaded with a second query, not part of the meetings table.
	Participants []string `db:"-" json:"participants,omitempty"`
}

// Location resolves the meeting's IANA timezone, falling back to UTC when
// the stored name is empty or unknown.
func (m Meeting) Location() *time.Location {
	if m.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(m.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CalendarEvent is one occurrence synced from an external calendar.
// Immutable once written; a later sync of the same window replaces it
// wholesale. IsBusy=false means the provider marked the event as not
// blocking time ("free"/transparent).
type CalendarEvent struct {
	ID            string    `json:"id"`
	CalendarID    string    `json:"calendarId"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Location      string    `json:"location,omitempty"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	IsAllDay      bool      `json:"isAllDay"`
	IsBusy        bool      `json:"isBusy"`
	CalendarLabel string    `json:"calendarLabel,omitempty"`
	CalendarColor string    `json:"calendarColor,omitempty"`
}

// TimeBucket is one month partition of a user's synced events
// ('event_buckets' table). BucketKey is YYYY-MM.
type TimeBucket struct {
	UID       string    `db:"uid" json:"uid"`
	BucketKey string    `db:"bucket_key" json:"bucketKey"`
	Events    []byte    `db:"events" json:"-"` // JSONB column holding []CalendarEvent
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// TimeBlock is a half-open interval [StartTime, EndTime) during which a
// participant is unavailable. Used both for calendar-derived busy intervals
// and manually declared blocks.
type TimeBlock struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// Valid reports whether the block satisfies EndTime > StartTime. Malformed
// blocks are inert: overlap checks skip them instead of failing.
func (b TimeBlock) Valid() bool {
	return b.EndTime.After(b.StartTime)
}

// AvailabilityDoc is the per-participant, per-meeting unavailability view
// consumed by the aggregator. BusyBlocks are derived from synced events at
// read time; ManualBlocks are the persisted manually declared list. A
// participant with no doc at all has not responded yet.
type AvailabilityDoc struct {
	UID          string      `json:"uid"`
	BusyBlocks   []TimeBlock `json:"busyBlocks"`
	ManualBlocks []TimeBlock `json:"manualBlocks"`
}

// TimeSlot is one discretized cell of the availability heat-map. Computed
// on demand, never persisted.
type TimeSlot struct {
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	AvailableCount int       `json:"availableCount"`
	Availability   float64   `json:"availability"`
	IsOptimal      bool      `json:"isOptimal"`
}

// RecommendedWindow is one suggested meeting window.
type RecommendedWindow struct {
	StartTime         time.Time `json:"startTime"`
	EndTime           time.Time `json:"endTime"`
	AvailableCount    int       `json:"availableCount"`
	TotalParticipants int       `json:"totalParticipants"`
}

// Integration represents the 'integrations' table: one connected calendar
// source for a user.
type Integration struct {
	ID           string                   `db:"id" json:"id"`
	UserID       string                   `db:"user_id" json:"userId"`
	Provider     enum.IntegrationProvider `db:"provider" json:"provider"`
	AppType      enum.IntegrationAppType  `db:"app_type" json:"appType"`
	AccessToken  sql.NullString           `db:"access_token" json:"-"`
	RefreshToken sql.NullString           `db:"refresh_token" json:"-"`
	ExpiryDate   sql.NullInt64            `db:"expiry_date" json:"-"`
	FeedURL      sql.NullString           `db:"feed_url" json:"-"` // ICS feeds only
	Label        sql.NullString           `db:"label" json:"label"`
	IsConnected  bool                     `db:"is_connected" json:"isConnected"`
	CreatedAt    time.Time                `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time                `db:"updated_at" json:"updatedAt"`
}
