package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"lenslab/internal/domain"
	"lenslab/internal/i18n"
	"lenslab/internal/middleware"
)

type settingsResponse struct {
	APIBaseURL string `json:"apiBaseUrl"`
	APIKey     string `json:"apiKey"`
	HasConfig  *bool  `json:"hasConfig,omitempty"`
	IsAdmin    bool   `json:"isAdmin"`
	Note       string `json:"note,omitempty"`
}

type settingsUpdateRequest struct {
	APIBaseURL string `json:"apiBaseUrl"`
	APIKey     string `json:"apiKey"`
}

func (a *App) GetSettings(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		a.error(w, r, http.StatusUnauthorized, "signin_required")
		return
	}

	if principal.Admin {
		a.json(w, http.StatusOK, settingsResponse{
			APIBaseURL: a.Config.APIBaseURL,
			APIKey:     "***admin***",
			IsAdmin:    true,
			Note:       i18n.T(middleware.LocaleFromContext(r.Context()), "admin_env_config"),
		})
		return
	}

	user, err := a.Users.FindByID(principal.UserID)
	if err != nil {
		a.error(w, r, http.StatusNotFound, "user_not_found")
		return
	}
	hasConfig := user.HasAPIConfig()
	a.json(w, http.StatusOK, settingsResponse{
		APIBaseURL: user.APIBaseURL,
		APIKey:     maskKey(user.APIKey),
		HasConfig:  &hasConfig,
		IsAdmin:    false,
	})
}

func (a *App) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		a.error(w, r, http.StatusUnauthorized, "signin_required")
		return
	}
	if principal.Admin {
		a.error(w, r, http.StatusBadRequest, "admin_env_config")
		return
	}

	var req settingsUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, r, http.StatusBadRequest, "fill_api_fields")
		return
	}
	if req.APIBaseURL == "" || req.APIKey == "" {
		a.error(w, r, http.StatusBadRequest, "fill_api_fields")
		return
	}

	if _, err := a.Users.UpdateAPIConfig(principal.UserID, req.APIBaseURL, req.APIKey); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, r, http.StatusNotFound, "user_not_found")
			return
		}
		a.Logger.Error().Err(err).Msg("update api config failed")
		a.errorRaw(w, http.StatusInternalServerError, err.Error())
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	a.json(w, http.StatusOK, map[string]any{"ok": true, "message": i18n.T(locale, "config_saved")})
}

// maskKey hides a stored API key, leaving only the last four characters.
func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "***" + key
	}
	return "***" + key[len(key)-4:]
}
