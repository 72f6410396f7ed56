package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/joinemm/quotegame/pkg/game"
)

// MessageHandler ingests inbound chat messages and feeds them to the
// spawn scheduler.
type MessageHandler struct {
	scheduler *game.Scheduler
	logger    *slog.Logger
}

func NewMessageHandler(scheduler *game.Scheduler, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		scheduler: scheduler,
		logger:    logger,
	}
}

func (h *MessageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported at /v1/messages.")
		return
	}

	var msg game.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		h.logger.Warn("Invalid message body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'text', 'user_id' and 'channel_id'.")
		return
	}
	if err := msg.Validate(); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.scheduler.HandleMessage(r.Context(), msg)
	if err != nil {
		h.logger.Error("Failed to process message", "error", err, "user_id", msg.UserID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to process message.")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, result)
}
