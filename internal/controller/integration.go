package controller

import (
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"

	"github.com/fazamuttaqien/meetsync/helper"
	"github.com/fazamuttaqien/meetsync/internal/dto"
	"github.com/fazamuttaqien/meetsync/internal/model"
	calsync "github.com/fazamuttaqien/meetsync/internal/sync"
	"github.com/fazamuttaqien/meetsync/middleware"
	appError "github.com/fazamuttaqien/meetsync/pkg/app-error"
	"github.com/fazamuttaqien/meetsync/pkg/enum"
	"github.com/fazamuttaqien/meetsync/pkg/validator"
)

// GET /me/integrations
func (i *Controller) GetUserIntegrations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		appError.WriteError(w, appError.NewUnauthorizedError(nil))
		return
	}

	var userIntegrations []model.Integration

	query := `SELECT * FROM integrations WHERE user_id = $1 AND is_connected = TRUE;`

	err := i.db.SelectContext(ctx, &userIntegrations, query, userID)
	if err != nil && err != sql.ErrNoRows {
		appError.WriteError(w, appError.NewAppError(enum.InternalServerError, "Failed to fetch user integrations", err))
		return
	}

	connected := make(map[enum.IntegrationAppType]model.Integration)
	for _, integration := range userIntegrations {
		connected[integration.AppType] = integration
	}

	integrations := make([]IntegrationStatus, 0, len(enum.AllIntegrationAppType()))
	for _, appType := range enum.AllIntegrationAppType() {
		provider := appTypeToProviderMap[appType]
		title := appTypeToTitleMap[appType]

		status := IntegrationStatus{
			Provider: provider,
			Title:    title,
			AppType:  appType,
		}
		if integration, ok := connected[appType]; ok {
			status.IsConnected = true
			status.Label = integration.Label.String
		}
		integrations = append(integrations, status)
	}

	response := map[string]any{
		"message":      "Fetched user integrations successfully",
		"integrations": integrations,
	}

	helper.ResponseJson(w, http.StatusOK, response)
}

// GET /me/integrations/check/{appType}
func (i *Controller) CheckIntegration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		appError.WriteError(w, appError.NewUnauthorizedError(nil))
		return
	}

	appType, err := appTypeFromPath(r)
	if err != nil {
		appError.WriteError(w, err)
		return
	}

	var isConnected bool
	query := `SELECT EXISTS (SELECT 1 FROM integrations WHERE user_id = $1 AND app_type = $2 AND is_connected = TRUE);`

	if err := i.db.GetContext(ctx, &isConnected, query, userID, appType); err != nil {
		appError.WriteError(w, appError.NewAppError(enum.InternalServerError, "Failed to check integration existence", err))
		return
	}

	response := map[string]any{
		"message":     "Integration checked successfully",
		"isConnected": isConnected,
	}
	helper.ResponseJson(w, http.StatusOK, response)
}

// POST /me/integrations/connect/{appType}
//
// Starts the OAuth flow for providers that need one. ICS feeds carry no
// OAuth and connect through CreateIcsIntegration instead.
func (i *Controller) ConnectApp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		appError.WriteError(w, appError.NewUnauthorizedError(nil))
		return
	}

	appType, err := appTypeFromPath(r)
	if err != nil {
		appError.WriteError(w, err)
		return
	}

	stateData := OAuthState{
		UserID:  userID,
		AppType: appType,
	}

	stateString, err := EncodeState(stateData)
	if err != nil {
		appError.WriteError(w, appError.NewAppError(enum.InternalServerError, "Failed to encode state", err))
		return
	}

	var authUrl string

	switch appType {
	case enum.AppGoogleCalendar:
		// Offline access and forced consent so a refresh token is issued
		opts := []oauth2.AuthCodeOption{
			oauth2.AccessTypeOffline,
			oauth2.ApprovalForce,
		}
		authUrl = calsync.GoogleOAuthConfig().AuthCodeURL(stateString, opts...)

	case enum.AppIcsFeed:
		appError.WriteError(w, appError.NewAppError(enum.BadRequest, "ICS feeds connect via POST /me/integrations/ics", nil))
		return
	default:
		appError.WriteError(w, appError.NewAppError(enum.BadRequest, "Unknown app type", nil))
		return
	}

	response := map[string]any{
		"url": authUrl,
	}
	helper.ResponseJson(w, http.StatusOK, response)
}

// POST /me/integrations/ics
func (i *Controller) CreateIcsIntegration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		appError.WriteError(w, appError.NewUnauthorizedError(nil))
		return
	}

	dto, ok := validator.GetValidatedDTOFromContext[dto.CreateIcsIntegrationDto](ctx)
	if !ok {
		appError.WriteError(w, appError.NewAppError(enum.InternalServerError, "Validated DTO not found in context", nil))
		return
	}

	var integration model.Integration
	query := `
		INSERT INTO integrations (user_id, provider, app_type, feed_url, label, is_connected, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, NOW(), NOW())
		ON CONFLICT (user_id, app_type) DO UPDATE SET
			feed_url = EXCLUDED.feed_url,
			label = EXCLUDED.label,
			is_connected = TRUE,
			updated_at = NOW()
		RETURNING *;
	`
	label := sql.NullString{String: dto.Label, Valid: dto.Label != ""}
	err := i.db.GetContext(ctx, &integration, query,
		userID, enum.ProviderIcs, enum.AppIcsFeed, dto.FeedURL, label)
	if err != nil {
		appError.WriteError(w, appError.NewAppError(enum.InternalServerError, "Failed to save ICS integration", err))
		return
	}

	response := map[string]any{
		"message":     "ICS feed connected successfully",
		"integration": integration,
	}
	helper.ResponseJson(w, http.StatusCreated, response)
}

// DELETE /me/integrations/{appType}
func (i *Controller) DisconnectApp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		appError.WriteError(w, appError.NewUnauthorizedError(nil))
		return
	}

	appType, err := appTypeFromPath(r)
	if err != nil {
		appError.WriteError(w, err)
		return
	}

	_, err = i.db.ExecContext(ctx,
		`UPDATE integrations SET is_connected = FALSE, updated_at = NOW() WHERE user_id = $1 AND app_type = $2;`,
		userID, appType)
	if err != nil {
		appError.WriteError(w, appError.NewAppError(enum.InternalServerError, "Failed to disconnect integration", err))
		return
	}

	helper.ResponseJson(w, http.StatusOK, helper.SimpleMessage{Message: "Integration disconnected successfully"})
}

// GET /auth/google/callback
// NOTE: This handler usually DOES NOT have the JWT AuthMiddleware applied.
func (i *Controller) GoogleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()
	code := query.Get("code")
	stateEncoded := query.Get("state")

	// --- Build Redirect URL (helper) ---
	buildRedirectURL := func(appType enum.IntegrationAppType, queryParams map[string]string) string {
		baseURL := i.frontendUrl
		if !strings.Contains(baseURL, "?") {
			baseURL += "?"
		} else if !strings.HasSuffix(baseURL, "&") && !strings.HasSuffix(baseURL, "?") {
			baseURL += "&"
		}
		// app_type is always present, even on error, for context on FE
		redirectURL := fmt.Sprintf("%sapp_type=%s", baseURL, url.QueryEscape(string(appType)))

		for key, val := range queryParams {
			redirectURL += fmt.Sprintf("&%s=%s", url.QueryEscape(key), url.QueryEscape(val))
		}
		return redirectURL
	}

	// --- State Validation ---
	if stateEncoded == "" {
		errorRedirectURL := fmt.Sprintf("%s?error=%s", i.frontendUrl, url.QueryEscape("Invalid state parameter"))
		http.Redirect(w, r, errorRedirectURL, http.StatusTemporaryRedirect)
		return
	}

	state, err := DecodeState(stateEncoded)
	if err != nil {
		redirectURL := buildRedirectURL(
			state.AppType,
			map[string]string{"error": "Invalid state parameter"},
		)
		http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
		return
	}
	if state.UserID == "" {
		redirectURL := buildRedirectURL(
			state.AppType,
			map[string]string{"error": "UserID is required in state"},
		)
		http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
		return
	}

	// --- Code Validation ---
	if code == "" {
		redirectURL := buildRedirectURL(
			state.AppType,
			map[string]string{"error": "Invalid authorization code"},
		)
		http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
		return
	}

	// --- Token Exchange ---
	token, err := calsync.GoogleOAuthConfig().Exchange(ctx, code)
	if err != nil {
		errMsg := fmt.Sprintf("Failed to exchange token: %v", err)
		redirectURL := buildRedirectURL(state.AppType, map[string]string{"error": errMsg})
		http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
		return
	}
	if !token.Valid() || token.AccessToken == "" {
		redirectURL := buildRedirectURL(
			state.AppType,
			map[string]string{"error": "Invalid token received"},
		)
		http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
		return
	}

	// --- Prepare Integration Data ---
	var expiryDate sql.NullInt64
	if !token.Expiry.IsZero() {
		expiryDate = sql.NullInt64{Int64: token.Expiry.Unix(), Valid: true}
	}
	refreshToken := sql.NullString{String: token.RefreshToken, Valid: token.RefreshToken != ""}

	provider, okP := appTypeToProviderMap[state.AppType]
	if !okP {
		appError.WriteError(w, appError.NewAppError(enum.BadRequest, "Invalid app type provided", nil))
		return
	}

	// Reconnecting replaces the stored tokens (UPSERT)
	var integration model.Integration
	queryIntegrations := `
		INSERT INTO integrations (
			user_id, provider, app_type, access_token,
			refresh_token, expiry_date, is_connected,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, TRUE, NOW(), NOW()
		)
		ON CONFLICT (user_id, app_type) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = COALESCE(NULLIF(EXCLUDED.refresh_token, ''), integrations.refresh_token),
			expiry_date = EXCLUDED.expiry_date,
			is_connected = TRUE,
			updated_at = NOW()
		RETURNING *;
	`

	if err := i.db.GetContext(ctx, &integration, queryIntegrations,
		state.UserID, provider, state.AppType, token.AccessToken,
		refreshToken, expiryDate,
	); err != nil {
		errMsg := fmt.Sprintf("Failed to save integration: %v", err)
		redirectURL := buildRedirectURL(state.AppType, map[string]string{"error": errMsg})
		http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
		return
	}

	// --- Success Redirect ---
	successRedirectURL := buildRedirectURL(state.AppType, map[string]string{"success": "true"})
	http.Redirect(w, r, successRedirectURL, http.StatusTemporaryRedirect)
}

func appTypeFromPath(r *http.Request) (enum.IntegrationAppType, error) {
	appTypeStr := chi.URLParam(r, "appType")
	if appTypeStr == "" {
		return "", appError.NewAppError(enum.BadRequest, "Missing appType in path", nil)
	}

	appType := enum.IntegrationAppType(strings.ToUpper(appTypeStr))
	if !slices.Contains(enum.AllIntegrationAppType(), appType) {
		msg := fmt.Sprintf("Invalid appType provided: %s", appTypeStr)
		return "", appError.NewAppError(enum.BadRequest, msg, nil)
	}
	return appType, nil
}

// --- Mappings ---

var (
	appTypeToProviderMap = map[enum.IntegrationAppType]enum.IntegrationProvider{
		enum.AppGoogleCalendar: enum.ProviderGoogle,
		enum.AppIcsFeed:        enum.ProviderIcs,
	}

	appTypeToTitleMap = map[enum.IntegrationAppType]string{
		enum.AppGoogleCalendar: "Google Calendar",
		enum.AppIcsFeed:        "ICS Feed",
	}
)

// --- State Encoding/Decoding ---

// OAuthState represents the data encoded in the OAuth state parameter.
type OAuthState struct {
	UserID  string                  `json:"userId"`
	AppType enum.IntegrationAppType `json:"appType"`
}

// EncodeState encodes state data into a Base64 string.
func EncodeState(state OAuthState) (string, error) {
	jsonData, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("failed to marshal state: %w", err)
	}
	return base64.URLEncoding.EncodeToString(jsonData), nil
}

// DecodeState decodes a Base64 string back into state data.
func DecodeState(encodedState string) (OAuthState, error) {
	jsonData, err := base64.URLEncoding.DecodeString(encodedState)
	if err != nil {
		return OAuthState{}, fmt.Errorf("failed to decode base64 state: %w", err)
	}

	var state OAuthState
	err = json.Unmarshal(jsonData, &state)
	if err != nil {
		return OAuthState{}, fmt.Errorf("failed to unmarshal state JSON: %w", err)
	}

	return state, nil
}
