package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/joinemm/quotegame/internal/storage"
	"github.com/joinemm/quotegame/pkg/document"
)

// SettingsHandler views and changes game settings. A malformed value
// is rejected with the specific parse failure and the prior setting is
// kept.
type SettingsHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewSettingsHandler(storage storage.Storage, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{
		storage: storage,
		logger:  logger,
	}
}

// SettingsView is the response shape for GET /v1/settings.
type SettingsView struct {
	Frequency string `json:"frequency"`
	Channel   string `json:"channel,omitempty"`
}

// SettingChange is the request shape for PUT /v1/settings.
type SettingChange struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.put(w, r)
	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Use GET or PUT at /v1/settings.")
	}
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.storage.Settings(r.Context())
	if err != nil {
		h.logger.Error("Failed to read settings", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to read settings.")
		return
	}

	freq := settings.FrequencyOrDefault()
	writeJSON(w, h.logger, http.StatusOK, SettingsView{
		Frequency: fmt.Sprintf("%d-%d", freq.Min, freq.Max),
		Channel:   settings.Channel,
	})
}

func (h *SettingsHandler) put(w http.ResponseWriter, r *http.Request) {
	var change SettingChange
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'name' and 'value'.")
		return
	}

	switch change.Name {
	case "frequency":
		freq, err := document.ParseFrequency(change.Value)
		if err != nil {
			writeError(w, h.logger, http.StatusBadRequest, err.Error())
			return
		}
		if err := h.storage.SetFrequency(r.Context(), freq); err != nil {
			h.settingError(w, err)
			return
		}
		h.logger.Info("Frequency updated", "min", freq.Min, "max", freq.Max)
	case "channel":
		if change.Value == "" {
			writeError(w, h.logger, http.StatusBadRequest, "channel value cannot be empty")
			return
		}
		if err := h.storage.SetChannel(r.Context(), change.Value); err != nil {
			h.settingError(w, err)
			return
		}
		h.logger.Info("Channel updated", "channel_id", change.Value)
	default:
		writeError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("unknown setting %q; supported: frequency, channel", change.Name))
		return
	}

	h.get(w, r)
}

func (h *SettingsHandler) settingError(w http.ResponseWriter, err error) {
	if errors.Is(err, document.ErrMalformedSetting) {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Error("Failed to store setting", "error", err)
	writeError(w, h.logger, http.StatusInternalServerError, "Failed to store setting.")
}
