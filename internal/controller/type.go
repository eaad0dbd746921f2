package controller

import (
	"time"

	"github.com/fazamuttaqien/meetsync/internal/model"
	"github.com/fazamuttaqien/meetsync/pkg/enum"
)

// MeetingAvailability is the aggregated heat-map response for one meeting
// window.
type MeetingAvailability struct {
	MeetingID    string                    `json:"meetingId"`
	RangeStart   time.Time                 `json:"rangeStart"`
	RangeEnd     time.Time                 `json:"rangeEnd"`
	Granularity  int                       `json:"granularityMinutes"`
	Participants []ParticipantAvailability `json:"participants"`
	Slots        []model.TimeSlot          `json:"slots"`
}

// ParticipantAvailability is one participant's view inside the aggregate.
// HasResponded distinguishes "no data yet" from "synced but entirely free":
// both count as available, but the client renders them differently.
type ParticipantAvailability struct {
	UID          string            `json:"uid"`
	HasResponded bool              `json:"hasResponded"`
	BusyBlocks   []model.TimeBlock `json:"busyBlocks"`
	ManualBlocks []model.TimeBlock `json:"manualBlocks"`
}

// IntegrationStatus is the per-provider connection summary for the caller.
type IntegrationStatus struct {
	Provider    enum.IntegrationProvider `json:"provider"`
	Title       string                   `json:"title"`
	AppType     enum.IntegrationAppType  `json:"appType"`
	Label       string                   `json:"label,omitempty"`
	IsConnected bool                     `json:"isConnected"`
}
