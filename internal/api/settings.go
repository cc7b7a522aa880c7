package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/zapuscina/internal/store"
)

// SettingsHandler reads and updates the runtime toggles stored in the
// settings table.
type SettingsHandler struct {
	DB    *sql.DB
	Flags *store.Flags
}

type settingsResponse struct {
	RemoteAIEnabled bool `json:"remote_ai_enabled"`
	VerboseLogging  bool `json:"verbose_logging"`
}

type settingsRequest struct {
	RemoteAIEnabled *bool `json:"remote_ai_enabled"`
	VerboseLogging  *bool `json:"verbose_logging"`
}

// Get handles GET /api/settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, settingsResponse{
		RemoteAIEnabled: h.Flags.RemoteAIEnabled(r.Context()),
		VerboseLogging:  h.Flags.VerboseLogging(r.Context()),
	})
}

// Update handles PUT /api/settings. Fields left out of the body keep their
// current value.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.RemoteAIEnabled != nil {
		if err := store.SetBoolSetting(r.Context(), h.DB, store.SettingRemoteAI, *req.RemoteAIEnabled); err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to update settings")
			return
		}
	}
	if req.VerboseLogging != nil {
		if err := store.SetBoolSetting(r.Context(), h.DB, store.SettingVerbose, *req.VerboseLogging); err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to update settings")
			return
		}
	}

	jsonResponse(w, http.StatusOK, settingsResponse{
		RemoteAIEnabled: h.Flags.RemoteAIEnabled(r.Context()),
		VerboseLogging:  h.Flags.VerboseLogging(r.Context()),
	})
}
