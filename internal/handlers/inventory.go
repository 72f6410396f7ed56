package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/joinemm/quotegame/internal/storage"
	"github.com/joinemm/quotegame/pkg/inventory"
)

// InventoryHandler serves per-user inventories at /v1/inventory/{userID}
// and removes items from them.
type InventoryHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewInventoryHandler(storage storage.Storage, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{
		storage: storage,
		logger:  logger,
	}
}

// InventoryResponse is the response shape for GET /v1/inventory/{userID}.
type InventoryResponse struct {
	UserID string              `json:"user_id"`
	Items  inventory.Inventory `json:"items"`
}

// RemoveItemRequest is the request shape for DELETE /v1/inventory/{userID}.
type RemoveItemRequest struct {
	Item      string `json:"item"`
	Amount    int    `json:"amount"`
	DeleteAll bool   `json:"delete_all"`
}

func (h *InventoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimPrefix(r.URL.Path, "/v1/inventory/")
	if userID == "" || strings.Contains(userID, "/") {
		writeError(w, h.logger, http.StatusBadRequest, "Expected /v1/inventory/{userID}.")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, userID)
	case http.MethodDelete:
		h.removeItem(w, r, userID)
	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Use GET or DELETE at /v1/inventory/{userID}.")
	}
}

func (h *InventoryHandler) get(w http.ResponseWriter, r *http.Request, userID string) {
	inv, err := h.storage.GetInventory(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to read inventory", "error", err, "user_id", userID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to read inventory.")
		return
	}
	if inv == nil {
		inv = inventory.Inventory{}
	}
	writeJSON(w, h.logger, http.StatusOK, InventoryResponse{UserID: userID, Items: inv})
}

func (h *InventoryHandler) removeItem(w http.ResponseWriter, r *http.Request, userID string) {
	var req RemoveItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'item' and 'amount' or 'delete_all'.")
		return
	}
	if req.Item == "" {
		writeError(w, h.logger, http.StatusBadRequest, "item is required")
		return
	}
	if req.Amount <= 0 && !req.DeleteAll {
		writeError(w, h.logger, http.StatusBadRequest, "amount must be positive unless delete_all is set")
		return
	}

	removed, err := h.storage.RemoveItem(r.Context(), userID, req.Item, req.Amount, req.DeleteAll)
	if err != nil {
		h.logger.Error("Failed to remove item", "error", err, "user_id", userID, "item", req.Item)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to remove item.")
		return
	}
	if !removed {
		writeError(w, h.logger, http.StatusNotFound, fmt.Sprintf("%s does not hold %q.", userID, req.Item))
		return
	}

	h.logger.Info("Item removed", "user_id", userID, "item", req.Item, "delete_all", req.DeleteAll)
	h.get(w, r, userID)
}

// LeaderboardHandler serves the collection leaderboard.
type LeaderboardHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewLeaderboardHandler(storage storage.Storage, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		storage: storage,
		logger:  logger,
	}
}

func (h *LeaderboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported at /v1/leaderboard.")
		return
	}

	totals, err := h.storage.Leaderboard(r.Context())
	if err != nil {
		h.logger.Error("Failed to build leaderboard", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to build leaderboard.")
		return
	}
	if totals == nil {
		totals = []inventory.Total{}
	}
	writeJSON(w, h.logger, http.StatusOK, totals)
}
