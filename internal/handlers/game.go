package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/joinemm/quotegame/pkg/game"
)

// SpawnHandler forces a challenge spawn for authorized callers.
type SpawnHandler struct {
	scheduler *game.Scheduler
	logger    *slog.Logger
}

func NewSpawnHandler(scheduler *game.Scheduler, logger *slog.Logger) *SpawnHandler {
	return &SpawnHandler{
		scheduler: scheduler,
		logger:    logger,
	}
}

// SpawnRequest is the request shape for POST /v1/spawn.
type SpawnRequest struct {
	CallerID string `json:"caller_id"`
}

func (h *SpawnHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported at /v1/spawn.")
		return
	}

	var req SpawnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'caller_id'.")
		return
	}
	if req.CallerID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "caller_id is required")
		return
	}

	result, err := h.scheduler.ForceSpawn(r.Context(), req.CallerID)
	if err != nil {
		if errors.Is(err, game.ErrUnauthorized) {
			writeError(w, h.logger, http.StatusForbidden, err.Error())
			return
		}
		h.logger.Error("Failed to force spawn", "error", err, "caller_id", req.CallerID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to force spawn.")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, result)
}

// StatusHandler reports the scheduler's message counter and threshold.
type StatusHandler struct {
	scheduler *game.Scheduler
	logger    *slog.Logger
}

func NewStatusHandler(scheduler *game.Scheduler, logger *slog.Logger) *StatusHandler {
	return &StatusHandler{
		scheduler: scheduler,
		logger:    logger,
	}
}

// StatusResponse is the response shape for GET /v1/status.
type StatusResponse struct {
	Counter   int `json:"counter"`
	Threshold int `json:"threshold"`
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported at /v1/status.")
		return
	}

	counter, threshold := h.scheduler.Status()
	writeJSON(w, h.logger, http.StatusOK, StatusResponse{Counter: counter, Threshold: threshold})
}
