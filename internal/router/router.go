package router

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fazamuttaqien/meetsync/internal/dto"
	"github.com/fazamuttaqien/meetsync/internal/presenter"
	"github.com/fazamuttaqien/meetsync/middleware"
	"github.com/fazamuttaqien/meetsync/pkg/validator"
)

func New(presenters presenter.Presenter) *chi.Mux {
	r := chi.NewRouter()

	// Basic CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{os.Getenv("FRONTEND_ORIGIN")}, // Use this to allow specific origin hosts
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize middlewares
	authMiddleware := middleware.AuthMiddleware
	errorHandlerMiddleware := middleware.ErrorMiddleware

	// Global middleware stack
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(errorHandlerMiddleware)
	r.Use(securityHeadersMiddleware)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// --- Auth Routes (Public) ---
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.WithValidation[dto.RegisterDto](validator.SourceBody)).
				Post("/register", presenters.Controllers.Register)

			r.With(middleware.WithValidation[dto.LoginDto](validator.SourceBody)).
				Post("/login", presenters.Controllers.Login)
		})

		// --- Meeting Routes ---
		r.Route("/meetings", func(r chi.Router) {
			r.Use(authMiddleware)

			r.Get("/", presenters.Controllers.GetUserMeetings)

			r.With(middleware.WithValidation[dto.CreateMeetingDto](validator.SourceBody)).
				Post("/", presenters.Controllers.CreateMeeting)

			r.Post("/join/{shareCode}", presenters.Controllers.JoinMeeting)

			r.Route("/{meetingId}", func(r chi.Router) {
				r.Get("/", presenters.Controllers.GetMeeting)
				r.Delete("/", presenters.Controllers.DeleteMeeting)

				r.Get("/availability", presenters.Controllers.GetMeetingAvailability)
				r.Get("/recommendations", presenters.Controllers.GetRecommendations)

				r.Get("/blocks", presenters.Controllers.GetManualBlocks)
				r.With(middleware.WithValidation[dto.SaveManualBlocksDto](validator.SourceBody)).
					Put("/blocks", presenters.Controllers.SaveManualBlocks)
			})
		})

		// --- Sync Routes ---
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.With(middleware.WithValidation[dto.SyncDto](validator.SourceBody)).
				Post("/sync", presenters.Controllers.SyncCalendars)
		})

		// --- Integration Routes ---
		r.Route("/integration", func(r chi.Router) {

			r.Get("/google/callback", presenters.Controllers.GoogleOAuthCallback)

			// Protected integration endpoints
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware)
				r.Get("/", presenters.Controllers.GetUserIntegrations)
				r.Get("/check/{appType}", presenters.Controllers.CheckIntegration)
				r.Get("/connect/{appType}", presenters.Controllers.ConnectApp)
				r.Delete("/{appType}", presenters.Controllers.DisconnectApp)

				r.With(middleware.WithValidation[dto.CreateIcsIntegrationDto](validator.SourceBody)).
					Post("/ics", presenters.Controllers.CreateIcsIntegration)
			})
		})
	})

	// Health check endpoint for monitoring
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}

// Enhanced security headers middleware
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Basic security headers
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")

		// Enhanced CSP policy
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; script-src 'self'; connect-src 'self'; img-src 'self'; style-src 'self';")

		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Permissions-Policy", "geolocation=(self), microphone=(), camera=(), payment=()")

		// Cache control for API responses
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		next.ServeHTTP(w, r)
	})
}
