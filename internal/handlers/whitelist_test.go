package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joinemm/quotegame/internal/storage"
)

func TestWhitelistHandler_ServeHTTP(t *testing.T) {
	logger := testLogger()

	t.Run("adds a user", func(t *testing.T) {
		mock := storage.NewMockStorage()
		handler := NewWhitelistHandler(mock, logger)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/whitelist/alice", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		ok, err := mock.IsWhitelisted(context.Background(), "alice")
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("adding twice stays idempotent", func(t *testing.T) {
		mock := storage.NewMockStorage()
		handler := NewWhitelistHandler(mock, logger)

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/whitelist/alice", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		}

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/whitelist/alice", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		ok, err := mock.IsWhitelisted(context.Background(), "alice")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("removing an absent user is 404", func(t *testing.T) {
		handler := NewWhitelistHandler(storage.NewMockStorage(), logger)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/whitelist/nobody", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing user id", func(t *testing.T) {
		handler := NewWhitelistHandler(storage.NewMockStorage(), logger)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/whitelist/", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		handler := NewWhitelistHandler(storage.NewMockStorage(), logger)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/whitelist/alice", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}
