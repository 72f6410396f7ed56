package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/joinemm/quotegame/internal/storage"
)

// WhitelistHandler manages the forced-spawn whitelist at
// /v1/whitelist/{userID}.
type WhitelistHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewWhitelistHandler(storage storage.Storage, logger *slog.Logger) *WhitelistHandler {
	return &WhitelistHandler{
		storage: storage,
		logger:  logger,
	}
}

func (h *WhitelistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimPrefix(r.URL.Path, "/v1/whitelist/")
	if userID == "" || strings.Contains(userID, "/") {
		writeError(w, h.logger, http.StatusBadRequest, "Expected /v1/whitelist/{userID}.")
		return
	}

	switch r.Method {
	case http.MethodPost:
		if err := h.storage.WhitelistAdd(r.Context(), userID); err != nil {
			h.logger.Error("Failed to whitelist user", "error", err, "user_id", userID)
			writeError(w, h.logger, http.StatusInternalServerError, "Failed to whitelist user.")
			return
		}
		h.logger.Info("User whitelisted", "user_id", userID)
		writeJSON(w, h.logger, http.StatusOK, map[string]string{"whitelisted": userID})
	case http.MethodDelete:
		removed, err := h.storage.WhitelistRemove(r.Context(), userID)
		if err != nil {
			h.logger.Error("Failed to remove user from whitelist", "error", err, "user_id", userID)
			writeError(w, h.logger, http.StatusInternalServerError, "Failed to remove user from whitelist.")
			return
		}
		if !removed {
			writeError(w, h.logger, http.StatusNotFound, fmt.Sprintf("%s is not whitelisted.", userID))
			return
		}
		h.logger.Info("User removed from whitelist", "user_id", userID)
		writeJSON(w, h.logger, http.StatusOK, map[string]string{"removed": userID})
	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Use POST or DELETE at /v1/whitelist/{userID}.")
	}
}
