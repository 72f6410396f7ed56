package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/joinemm/quotegame/internal/storage"
	"github.com/joinemm/quotegame/pkg/challenge"
)

// ChallengeHandler manages the challenge pool: list, add, remove.
type ChallengeHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewChallengeHandler(storage storage.Storage, logger *slog.Logger) *ChallengeHandler {
	return &ChallengeHandler{
		storage: storage,
		logger:  logger,
	}
}

// ChallengeListResponse is the response shape for GET /v1/challenges.
type ChallengeListResponse struct {
	Challenges []challenge.Definition `json:"challenges"`
	Weights    []int                  `json:"weights"`
}

func (h *ChallengeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.add(w, r)
	case http.MethodDelete:
		h.remove(w, r)
	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Use GET, POST or DELETE at /v1/challenges.")
	}
}

func (h *ChallengeHandler) list(w http.ResponseWriter, r *http.Request) {
	pool, err := h.storage.ListChallenges(r.Context())
	if err != nil {
		h.logger.Error("Failed to list challenges", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to list challenges.")
		return
	}
	weights, err := h.storage.Weights(r.Context())
	if err != nil {
		h.logger.Error("Failed to read weights", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to read weights.")
		return
	}
	if pool == nil {
		pool = []challenge.Definition{}
	}
	if weights == nil {
		weights = []int{}
	}
	writeJSON(w, h.logger, http.StatusOK, ChallengeListResponse{Challenges: pool, Weights: weights})
}

func (h *ChallengeHandler) add(w http.ResponseWriter, r *http.Request) {
	var def challenge.Definition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected a challenge definition.")
		return
	}
	if err := def.Validate(); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.storage.AddChallenge(r.Context(), def); err != nil {
		h.logger.Error("Failed to store challenge", "error", err, "key", def.Key())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to store challenge.")
		return
	}

	h.logger.Info("Challenge added", "key", def.Key(), "kind", def.Kind())
	writeJSON(w, h.logger, http.StatusCreated, def)
}

func (h *ChallengeHandler) remove(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Missing 'key' query parameter.")
		return
	}

	removed, err := h.storage.RemoveChallenge(r.Context(), key)
	if err != nil {
		h.logger.Error("Failed to remove challenge", "error", err, "key", key)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to remove challenge.")
		return
	}
	if !removed {
		writeError(w, h.logger, http.StatusNotFound, fmt.Sprintf("No challenge matches %q.", key))
		return
	}

	h.logger.Info("Challenge removed", "key", key)
	writeJSON(w, h.logger, http.StatusOK, map[string]string{"removed": key})
}
