package enum

// --- IntegrationProvider ---
type IntegrationProvider string

const (
	ProviderGoogle IntegrationProvider = "GOOGLE"
	ProviderIcs    IntegrationProvider = "ICS"
)

func AllIntegrationProvider() []IntegrationProvider {
	return []IntegrationProvider{
		ProviderGoogle,
		ProviderIcs,
	}
}

func (e IntegrationProvider) String() string { return string(e) }

// --- IntegrationAppType ---
type IntegrationAppType string

const (
	AppGoogleCalendar IntegrationAppType = "GOOGLE_CALENDAR"
	AppIcsFeed        IntegrationAppType = "ICS_FEED"
)

func AllIntegrationAppType() []IntegrationAppType {
	return []IntegrationAppType{
		AppGoogleCalendar,
		AppIcsFeed,
	}
}

func (e IntegrationAppType) String() string { return string(e) }

func IntegrationAppTypeValues() []string {
	vals := AllIntegrationAppType()
	strs := make([]string, len(vals))

	for i, v := range vals {
		strs[i] = v.String()
	}

	return strs
}

// --- RecommendReason ---

// RecommendReason explains why the recommendation engine returned no
// windows. Input problems (invalid duration, no participants) are rejected
// up front; policy outcomes (no slots, no surviving candidates) are valid
// empty results, not errors. Callers must be able to tell the two apart.
type RecommendReason string

const (
	ReasonInvalidDuration RecommendReason = "INVALID_DURATION"
	ReasonNoParticipants  RecommendReason = "NO_PARTICIPANTS"
	ReasonNoSlots         RecommendReason = "NO_SLOTS"
	ReasonNoCandidates    RecommendReason = "NO_CANDIDATES"
)

func (r RecommendReason) String() string { return string(r) }

// IsInputError reports whether the reason denotes rejected input rather
// than a computed empty result.
func (r RecommendReason) IsInputError() bool {
	return r == ReasonInvalidDuration || r == ReasonNoParticipants
}

// --- MeetingFilter ---

// MeetingFilter selects which of a user's meetings to list.
type MeetingFilter string

const (
	MeetingFilterUpcoming MeetingFilter = "UPCOMING"
	MeetingFilterPast     MeetingFilter = "PAST"
)

func AllMeetingFilters() []MeetingFilter {
	return []MeetingFilter{
		MeetingFilterUpcoming,
		MeetingFilterPast,
	}
}

func (mf MeetingFilter) IsValid() bool {
	switch mf {
	case MeetingFilterUpcoming, MeetingFilterPast:
		return true
	default:
		return false
	}
}

func (mf MeetingFilter) String() string {
	return string(mf)
}
