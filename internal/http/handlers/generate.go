package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"lenslab/internal/i18n"
	"lenslab/internal/imagegen"
	"lenslab/internal/middleware"
)

type generateRequest struct {
	ImageBase64 string `json:"imageBase64"`
	MIMEType    string `json:"mimeType"`
	Prompt      string `json:"prompt"`
}

type generateResponse struct {
	Image    string `json:"image"`
	MIMEType string `json:"mimeType"`
}

// Generate runs the transformation pipeline for one request: resolve
// credentials, build the multimodal payload, call the upstream, extract the
// output image. The pipeline is strictly sequential and terminal at the first
// failure; every failure maps to one status and one localized message.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		a.error(w, r, http.StatusUnauthorized, "signin_required")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, r, http.StatusBadRequest, "missing_fields")
		return
	}
	if req.ImageBase64 == "" || req.Prompt == "" {
		a.error(w, r, http.StatusBadRequest, "missing_fields")
		return
	}

	cfg, err := a.Resolver.Resolve(principal)
	if err != nil {
		switch {
		case errors.Is(err, imagegen.ErrUserConfigRequired):
			a.error(w, r, http.StatusForbidden, "config_required")
		case errors.Is(err, imagegen.ErrNoAPIKey):
			a.error(w, r, http.StatusUnauthorized, "no_api_key")
		default:
			a.errorRaw(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	payload := imagegen.BuildPayload(imagegen.TransformRequest{
		ImageBase64: req.ImageBase64,
		MIMEType:    req.MIMEType,
		Instruction: req.Prompt,
	}, a.Config.ModelName)

	a.Logger.Info().
		Str("base_url", cfg.BaseURL).
		Str("model", a.Config.ModelName).
		Str("user", principal.Email).
		Msg("generate request")

	resp, err := a.Upstream.ChatCompletion(r.Context(), cfg, payload)
	if err != nil {
		locale := middleware.LocaleFromContext(r.Context())
		var unreachable *imagegen.UnreachableError
		var upstream *imagegen.UpstreamError
		switch {
		case errors.As(err, &unreachable):
			a.Logger.Error().Err(err).Str("base_url", unreachable.BaseURL).Msg("upstream unreachable")
			a.error(w, r, http.StatusBadGateway, "upstream_unreach", unreachable.BaseURL)
		case errors.As(err, &upstream):
			// The upstream's own status passes through unchanged.
			msg := upstream.Message
			if msg == "" {
				msg = i18n.T(locale, "api_error", upstream.Status)
			}
			a.Logger.Error().Int("status", upstream.Status).Str("message", msg).Msg("upstream rejected request")
			a.errorRaw(w, upstream.Status, msg)
		default:
			a.Logger.Error().Err(err).Msg("upstream call failed")
			a.errorRaw(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	result, err := a.Extractor.Extract(r.Context(), resp.Content())
	if err != nil {
		var unrec *imagegen.UnrecognizedContentError
		switch {
		case errors.Is(err, imagegen.ErrNoContent):
			a.error(w, r, http.StatusInternalServerError, "no_content")
		case errors.As(err, &unrec):
			a.error(w, r, http.StatusInternalServerError, "model_returned_text", unrec.Excerpt)
		default:
			a.errorRaw(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	a.json(w, http.StatusOK, generateResponse{Image: result.ImageBase64, MIMEType: result.MIMEType})
}
