package handlers

import (
	"net/http"

	"lenslab/internal/domain"
)

// Presets serves the built-in preset catalog for the front-end grid.
func (a *App) Presets(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"presets": domain.Presets()})
}
