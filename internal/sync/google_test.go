package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/calendar/v3"
)

func TestGoogleOAuthConfigReadsEnvAfterInit(t *testing.T) {
	// Credentials arrive via a .env file loaded in main, long after this
	// package's init has run. The config must still pick them up.
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("GOOGLE_REDIRECT_URI", "https://app.example.com/api/integration/google/callback")

	cfg := GoogleOAuthConfig()
	assert.Equal(t, "client-id", cfg.ClientID)
	assert.Equal(t, "client-secret", cfg.ClientSecret)
	assert.Equal(t, "https://app.example.com/api/integration/google/callback", cfg.RedirectURL)
	assert.Contains(t, cfg.Scopes, calendar.CalendarReadonlyScope)
}
