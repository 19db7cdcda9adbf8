package handlers

import (
	"net/http"
)

type modelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     bool   `json:"default,omitempty"`
}

// Selectable Gemini models. Only the first provider honors the model
// hint; the fallbacks run their own fixed models.
var selectableModels = []modelInfo{
	{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash", Description: "Fast, balanced quality. Recommended.", Default: true},
	{ID: "gemini-2.5-pro", Name: "Gemini 2.5 Pro", Description: "Highest quality, slower."},
	{ID: "gemini-2.0-flash", Name: "Gemini 2.0 Flash", Description: "Previous generation, fast."},
	{ID: "gemini-1.5-flash", Name: "Gemini 1.5 Flash", Description: "Legacy, widest availability."},
}

func (a *App) ListModels(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string][]modelInfo{"models": selectableModels})
}
