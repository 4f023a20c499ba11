package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"lenslab/internal/http/handlers"
	"lenslab/internal/middleware"
)

// NewRouter assembles the HTTP surface: public auth routes, and an
// authenticated group for generation, settings, and the preset catalog.
func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Recover(app.Logger),
		middleware.Logger(app.Logger),
		middleware.Locale,
		middleware.CORS(app.Config.CORSAllowedOrigins),
	)

	// Health
	r.Get("/v1/healthz", app.Health)

	// Public
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", app.Register)
		r.Post("/login", app.Login)
		r.Post("/logout", app.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(app.Tokens))
			r.Get("/me", app.Me)
		})
	})

	// Authenticated
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(app.Tokens))

		r.Get("/api/presets", app.Presets)

		r.Route("/api/user/settings", func(r chi.Router) {
			r.Get("/", app.GetSettings)
			r.Put("/", app.UpdateSettings)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute))
			r.Post("/api/generate", app.Generate)
		})
	})

	return r
}
