package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joinemm/quotegame/internal/storage"
	"github.com/joinemm/quotegame/pkg/challenge"
	"github.com/joinemm/quotegame/pkg/document"
	"github.com/joinemm/quotegame/pkg/game"
)

func newTestScheduler(t *testing.T, mock *storage.MockStorage, pub *stubPublisher) *game.Scheduler {
	t.Helper()
	scheduler, err := game.NewScheduler(context.Background(), mock, pub, "owner", rand.New(rand.NewSource(1)), testLogger())
	assert.NoError(t, err)
	return scheduler
}

func TestMessageHandler_ServeHTTP(t *testing.T) {
	logger := testLogger()

	t.Run("counts a message", func(t *testing.T) {
		mock := storage.NewMockStorage()
		scheduler := newTestScheduler(t, mock, &stubPublisher{})
		handler := NewMessageHandler(scheduler, logger)

		body, _ := json.Marshal(game.Message{Text: "hello", UserID: "alice", ChannelID: "general"})
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/messages", bytes.NewReader(body)))

		assert.Equal(t, http.StatusOK, w.Code)
		var result game.Result
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&result))
		assert.False(t, result.Spawned)
		assert.False(t, result.Matched)
		counter, _ := scheduler.Status()
		assert.Equal(t, 1, counter)
	})

	t.Run("spawn and answer through the endpoint", func(t *testing.T) {
		mock := storage.NewMockStorage()
		assert.NoError(t, mock.SetFrequency(context.Background(), document.FrequencyRange{Min: 1, Max: 1}))
		assert.NoError(t, mock.AddChallenge(context.Background(), challenge.Definition{Question: "2+2", Answer: "4"}))
		mock.SetRandomAsset("img/1/common.png")
		pub := &stubPublisher{}
		handler := NewMessageHandler(newTestScheduler(t, mock, pub), logger)

		send := func(text, user string) game.Result {
			body, _ := json.Marshal(game.Message{Text: text, UserID: user, ChannelID: "general"})
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/messages", bytes.NewReader(body)))
			assert.Equal(t, http.StatusOK, w.Code)
			var result game.Result
			assert.NoError(t, json.NewDecoder(w.Body).Decode(&result))
			return result
		}

		send("one", "alice")
		spawned := send("two", "bob")
		assert.True(t, spawned.Spawned)
		assert.Equal(t, []string{"2+2"}, pub.texts)

		answered := send("4", "carol")
		assert.True(t, answered.Matched)
		assert.Equal(t, "img/1/common.png", answered.AwardedItem)

		inv, err := mock.GetInventory(context.Background(), "carol")
		assert.NoError(t, err)
		assert.Equal(t, 1, inv["img/1/common.png"])
	})

	t.Run("invalid body", func(t *testing.T) {
		handler := NewMessageHandler(newTestScheduler(t, storage.NewMockStorage(), &stubPublisher{}), logger)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/messages", bytes.NewReader([]byte("not json"))))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing user id", func(t *testing.T) {
		handler := NewMessageHandler(newTestScheduler(t, storage.NewMockStorage(), &stubPublisher{}), logger)

		body, _ := json.Marshal(game.Message{Text: "hi", ChannelID: "general"})
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/messages", bytes.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		handler := NewMessageHandler(newTestScheduler(t, storage.NewMockStorage(), &stubPublisher{}), logger)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/messages", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}
