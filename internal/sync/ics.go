package sync

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
)

// maxOccurrencesPerEvent caps RRULE expansion so a pathological feed cannot
// blow up a sync.
const maxOccurrencesPerEvent = 1000

// IcsProvider reads events from a subscribed ICS feed URL. The feed is a
// single calendar, so ListCalendars always returns one entry.
type IcsProvider struct {
	url    string
	label  string
	client *http.Client
}

func NewIcsProvider(url, label string) *IcsProvider {
	if label == "" {
		label = "ICS feed"
	}
	return &IcsProvider{
		url:    url,
		label:  label,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *IcsProvider) ListCalendars(_ context.Context) ([]Calendar, error) {
	return []Calendar{{ID: p.url, Label: p.label}}, nil
}

func (p *IcsProvider) FetchRawEvents(ctx context.Context, _ string, rangeStart, rangeEnd time.Time) ([]RawEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build ics request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch ics feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch ics feed: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read ics feed: %w", err)
	}

	cal, err := ical.ParseCalendar(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse ics feed: %w", err)
	}

	events := make([]RawEvent, 0, len(cal.Events()))
	for _, ve := range cal.Events() {
		events = append(events, expandVEvent(ve, rangeStart, rangeEnd)...)
	}
	return events, nil
}

// expandVEvent turns one VEVENT into concrete occurrences inside the
// window. Recurring events expand through their RRULE; events that fail to
// parse are skipped rather than failing the whole feed.
func expandVEvent(ve *ical.VEvent, rangeStart, rangeEnd time.Time) []RawEvent {
	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return nil
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return nil
	}
	end, errEnd := ve.GetEndAt()
	if errEnd != nil || !end.After(start) {
		end = start.Add(time.Hour)
	}

	base := RawEvent{
		ID:          uidProp.Value,
		Title:       propValue(ve, ical.ComponentPropertySummary),
		Description: propValue(ve, ical.ComponentPropertyDescription),
		Location:    propValue(ve, ical.ComponentPropertyLocation),
		Start:       start,
		End:         end,
		IsAllDay:    isAllDayVEvent(ve),
		Transparent: strings.EqualFold(propValue(ve, ical.ComponentProperty(ical.PropertyTransp)), "TRANSPARENT"),
	}

	rruleProp := ve.GetProperty(ical.ComponentPropertyRrule)
	if rruleProp == nil || rruleProp.Value == "" {
		if overlapsWindow(base, rangeStart, rangeEnd) {
			return []RawEvent{base}
		}
		return nil
	}

	rule, err := rrule.StrToRRule(rruleProp.Value)
	if err != nil {
		return nil
	}
	rule.DTStart(start)

	duration := end.Sub(start)
	starts := rule.Between(rangeStart.In(start.Location()), rangeEnd.In(start.Location()), true)
	if len(starts) > maxOccurrencesPerEvent {
		starts = starts[:maxOccurrencesPerEvent]
	}

	occurrences := make([]RawEvent, 0, len(starts))
	for _, occStart := range starts {
		occ := base
		occ.Start = occStart
		occ.End = occStart.Add(duration)
		// One synthetic id per occurrence so dedup keeps them all.
		occ.ID = fmt.Sprintf("%s/%s", base.ID, occStart.UTC().Format(time.RFC3339))
		occurrences = append(occurrences, occ)
	}
	return occurrences
}

func overlapsWindow(ev RawEvent, rangeStart, rangeEnd time.Time) bool {
	return ev.Start.Before(rangeEnd) && ev.End.After(rangeStart)
}

func propValue(ve *ical.VEvent, name ical.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return p.Value
	}
	return ""
}

// isAllDayVEvent detects DATE-valued DTSTART (VALUE=DATE or no time part).
func isAllDayVEvent(ve *ical.VEvent) bool {
	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return false
	}
	if params := dtStart.ICalParameters; params != nil {
		if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			return true
		}
	}
	return !strings.Contains(dtStart.Value, "T")
}
