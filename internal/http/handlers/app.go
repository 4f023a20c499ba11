package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"lenslab/internal/auth"
	"lenslab/internal/i18n"
	"lenslab/internal/imagegen"
	"lenslab/internal/infra"
	"lenslab/internal/middleware"
	"lenslab/internal/store"
)

// ChatCaller abstracts the upstream transport so handler tests can substitute
// it and assert on call counts.
type ChatCaller interface {
	ChatCompletion(ctx context.Context, cfg imagegen.UpstreamConfig, payload imagegen.ChatPayload) (imagegen.ChatResponse, error)
}

// App is the handler container holding everything request handlers need.
type App struct {
	Config    *infra.Config
	Logger    infra.Logger
	Users     *store.UserStore
	Tokens    *auth.TokenManager
	Resolver  *imagegen.Resolver
	Upstream  ChatCaller
	Extractor *imagegen.Extractor
}

// NewApp wires the application container from its dependencies.
func NewApp(cfg *infra.Config, logger infra.Logger, users *store.UserStore, tokens *auth.TokenManager) *App {
	return &App{
		Config:   cfg,
		Logger:   logger,
		Users:    users,
		Tokens:   tokens,
		Resolver: imagegen.NewResolver(imagegen.UpstreamConfig{BaseURL: cfg.APIBaseURL, APIKey: cfg.APIKey}, users),
		Upstream: imagegen.NewClient(imagegen.ClientOptions{Timeout: cfg.UpstreamTimeout}),
		Extractor: imagegen.NewExtractor(imagegen.ExtractorOptions{
			Logger: logger,
		}),
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// error writes a localized {error} envelope for the request's negotiated
// locale.
func (a *App) error(w http.ResponseWriter, r *http.Request, code int, key string, args ...any) {
	locale := middleware.LocaleFromContext(r.Context())
	a.json(w, code, map[string]string{"error": i18n.T(locale, key, args...)})
}

// errorRaw writes an {error} envelope with a message that is already final,
// such as text extracted from an upstream response.
func (a *App) errorRaw(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]string{"error": msg})
}

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) isAdminEmail(email string) bool {
	return email != "" && strings.EqualFold(email, a.Config.AdminEmail)
}
