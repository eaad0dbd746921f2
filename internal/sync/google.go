package sync

import (
	"context"
	"fmt"
	"os"
	stdsync "sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/fazamuttaqien/meetsync/internal/model"
)

const layoutDate = "2006-01-02"

// GoogleProvider reads events through the Google Calendar API on behalf of
// one connected user.
type GoogleProvider struct {
	svc *calendar.Service
}

// NewGoogleProvider builds a provider from a stored integration. The
// oauth2 TokenSource refreshes the access token transparently when the
// stored one has expired.
func NewGoogleProvider(ctx context.Context, integration model.Integration) (*GoogleProvider, error) {
	if !integration.RefreshToken.Valid || integration.RefreshToken.String == "" {
		return nil, fmt.Errorf("google integration %s has no refresh token for offline access", integration.ID)
	}

	token := &oauth2.Token{
		AccessToken:  integration.AccessToken.String,
		RefreshToken: integration.RefreshToken.String,
	}
	if integration.ExpiryDate.Valid {
		token.Expiry = time.Unix(integration.ExpiryDate.Int64, 0)
	}

	httpClient := GoogleOAuthConfig().Client(ctx, token)
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create google calendar service: %w", err)
	}
	return &GoogleProvider{svc: svc}, nil
}

func (p *GoogleProvider) ListCalendars(ctx context.Context) ([]Calendar, error) {
	list, err := p.svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list google calendars: %w", err)
	}

	calendars := make([]Calendar, 0, len(list.Items))
	for _, item := range list.Items {
		calendars = append(calendars, Calendar{
			ID:    item.Id,
			Label: item.Summary,
			Color: item.BackgroundColor,
		})
	}
	return calendars, nil
}

func (p *GoogleProvider) FetchRawEvents(ctx context.Context, calendarID string, rangeStart, rangeEnd time.Time) ([]RawEvent, error) {
	// SingleEvents expands recurring events server-side, so every item is
	// one concrete occurrence.
	list, err := p.svc.Events.List(calendarID).
		ShowDeleted(false).
		SingleEvents(true).
		TimeMin(rangeStart.Format(time.RFC3339)).
		TimeMax(rangeEnd.Format(time.RFC3339)).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("fetch google events for %s: %w", calendarID, err)
	}

	events := make([]RawEvent, 0, len(list.Items))
	for _, item := range list.Items {
		raw, ok := googleRawEvent(item)
		if !ok {
			continue
		}
		events = append(events, raw)
	}
	return events, nil
}

// googleRawEvent converts one API item, handling the two start/end shapes:
// timed events carry DateTime, all-day events carry a bare Date in the
// event's timezone.
func googleRawEvent(item *calendar.Event) (RawEvent, bool) {
	if item.Start == nil || item.End == nil {
		return RawEvent{}, false
	}

	raw := RawEvent{
		ID:          item.Id,
		Title:       item.Summary,
		Description: item.Description,
		Location:    item.Location,
		Transparent: item.Transparency == "transparent",
	}

	if item.Start.DateTime != "" {
		start, errS := time.Parse(time.RFC3339, item.Start.DateTime)
		end, errE := time.Parse(time.RFC3339, item.End.DateTime)
		if errS != nil || errE != nil {
			return RawEvent{}, false
		}
		raw.Start, raw.End = start, end
		return raw, true
	}

	if item.Start.Date != "" {
		loc := eventLocation(item)
		start, errS := time.ParseInLocation(layoutDate, item.Start.Date, loc)
		end, errE := time.ParseInLocation(layoutDate, item.End.Date, loc)
		if errS != nil || errE != nil {
			return RawEvent{}, false
		}
		raw.Start, raw.End = start, end
		raw.IsAllDay = true
		return raw, true
	}

	return RawEvent{}, false
}

func eventLocation(item *calendar.Event) *time.Location {
	if item.Start.TimeZone != "" {
		if loc, err := time.LoadLocation(item.Start.TimeZone); err == nil {
			return loc
		}
	}
	return time.UTC
}

// --- OAuth2 configuration ---

// Built on first use, not in init: main loads the .env file after every
// package init has already run, so reading the environment here any earlier
// would freeze empty credentials.
var googleOAuthConfig = stdsync.OnceValue(func() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URI"),
		Scopes: []string{
			calendar.CalendarReadonlyScope,
		},
		Endpoint: google.Endpoint,
	}
})

// GoogleOAuthConfig returns the process-wide OAuth2 config for Google
// calendar access. Environment variables are read once, on the first call.
func GoogleOAuthConfig() *oauth2.Config {
	return googleOAuthConfig()
}
