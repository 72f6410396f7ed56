package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joinemm/quotegame/internal/storage"
	"github.com/joinemm/quotegame/pkg/document"
)

func TestSettingsHandler_ServeHTTP(t *testing.T) {
	logger := testLogger()

	tests := []struct {
		name           string
		method         string
		body           interface{}
		setup          func(*storage.MockStorage)
		expectedStatus int
		expectedFreq   string
		expectedError  string
	}{
		{
			name:           "get returns defaults",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedFreq:   "10-20",
		},
		{
			name:   "get returns stored settings",
			method: http.MethodGet,
			setup: func(m *storage.MockStorage) {
				_ = m.SetFrequency(context.Background(), document.FrequencyRange{Min: 3, Max: 7})
				_ = m.SetChannel(context.Background(), "trivia")
			},
			expectedStatus: http.StatusOK,
			expectedFreq:   "3-7",
		},
		{
			name:           "put frequency",
			method:         http.MethodPut,
			body:           SettingChange{Name: "frequency", Value: "5-15"},
			expectedStatus: http.StatusOK,
			expectedFreq:   "5-15",
		},
		{
			name:           "put malformed frequency keeps prior value",
			method:         http.MethodPut,
			body:           SettingChange{Name: "frequency", Value: "ten-20"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "malformed",
		},
		{
			name:           "put inverted frequency is rejected",
			method:         http.MethodPut,
			body:           SettingChange{Name: "frequency", Value: "20-10"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "put channel",
			method:         http.MethodPut,
			body:           SettingChange{Name: "channel", Value: "games"},
			expectedStatus: http.StatusOK,
			expectedFreq:   "10-20",
		},
		{
			name:           "put unknown setting",
			method:         http.MethodPut,
			body:           SettingChange{Name: "volume", Value: "11"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "method not allowed",
			method:         http.MethodDelete,
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := storage.NewMockStorage()
			if tt.setup != nil {
				tt.setup(mock)
			}
			handler := NewSettingsHandler(mock, logger)

			var body bytes.Buffer
			if tt.body != nil {
				assert.NoError(t, json.NewEncoder(&body).Encode(tt.body))
			}
			req := httptest.NewRequest(tt.method, "/v1/settings", &body)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var view SettingsView
				assert.NoError(t, json.NewDecoder(w.Body).Decode(&view))
				assert.Equal(t, tt.expectedFreq, view.Frequency)
			} else if tt.expectedError != "" {
				var errResp ErrorResponse
				assert.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
				assert.Contains(t, errResp.Error, tt.expectedError)
			}
		})
	}

	t.Run("rejected frequency keeps prior value", func(t *testing.T) {
		mock := storage.NewMockStorage()
		assert.NoError(t, mock.SetFrequency(context.Background(), document.FrequencyRange{Min: 2, Max: 4}))
		handler := NewSettingsHandler(mock, logger)

		body, _ := json.Marshal(SettingChange{Name: "frequency", Value: "5-1"})
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/v1/settings", bytes.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/settings", nil))
		var view SettingsView
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&view))
		assert.Equal(t, "2-4", view.Frequency)
	})
}
