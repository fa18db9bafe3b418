package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizecleaning/clara/internal/ai"
	"github.com/rizecleaning/clara/internal/api"
	"github.com/rizecleaning/clara/internal/conversation"
	"github.com/rizecleaning/clara/internal/llm"
	"github.com/rizecleaning/clara/internal/store"
)

type stubModel struct {
	reply string
	err   error
}

func (s *stubModel) Complete(_ context.Context, _ []conversation.Message, _ llm.Params) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newTestServer(t *testing.T, model llm.Client) (http.Handler, *store.BoltStore) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc, err := ai.NewService(model, conversation.NewStore(), logger)
	require.NoError(t, err)

	fb, err := store.NewBoltStore(filepath.Join(t.TempDir(), "clara.db"))
	require.NoError(t, err)
	t.Cleanup(func() { fb.Close() })

	return api.NewRouter(api.NewHandler(svc, fb, logger), []string{"*"}), fb
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMessageEndpoint(t *testing.T) {
	h, _ := newTestServer(t, &stubModel{reply: "¡Claro! Te ayudo con eso."})

	rec := postJSON(t, h, "/api/chat/message", `{"message":"necesito limpiar mi oficina","user_id":"u1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var resp api.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "¡Claro! Te ayudo con eso.", resp.Response)
	assert.NotEmpty(t, resp.ConversationID)
	assert.False(t, resp.Timestamp.IsZero())
	assert.NotNil(t, resp.Sources)
	assert.Empty(t, resp.Sources)
}

func TestMessageEndpointKeepsConversationID(t *testing.T) {
	h, _ := newTestServer(t, &stubModel{reply: "ok"})

	rec := postJSON(t, h, "/api/chat/message", `{"message":"hola","conversation_id":"visita-42"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "visita-42", resp.ConversationID)
}

func TestMessageEndpointValidation(t *testing.T) {
	h, _ := newTestServer(t, &stubModel{reply: "ok"})

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"missing message", `{"user_id":"u1"}`, "message is required"},
		{"blank message", `{"message":"   "}`, "message is required"},
		{"malformed json", `{"message":`, "invalid request body"},
		{"empty body", ``, "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h, "/api/chat/message", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantErr, resp.Error)
		})
	}
}

func TestMessageEndpointAnswersWhenModelDown(t *testing.T) {
	h, _ := newTestServer(t, &stubModel{err: &llm.InferenceError{
		Kind: llm.KindTransport,
		Err:  errors.New("connection refused"),
	}})

	rec := postJSON(t, h, "/api/chat/message", `{"message":"hola"}`)
	require.Equal(t, http.StatusOK, rec.Code, "a model outage must not surface")

	var resp api.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Response, "¡Hola! Soy Clara")
}

func TestFeedbackEndpoint(t *testing.T) {
	h, fb := newTestServer(t, &stubModel{reply: "ok"})

	rec := postJSON(t, h, "/api/chat/feedback", `{"conversation_id":"visita-42","rating":5,"feedback":"excelente"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "feedback received", resp["message"])
	assert.Equal(t, "visita-42", resp["conversation_id"])

	saved, err := fb.RecentFeedback(1)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "visita-42", saved[0].ConversationID)
	assert.Equal(t, 5, saved[0].Rating)
	assert.Equal(t, "excelente", saved[0].Comment)
}

func TestFeedbackEndpointValidation(t *testing.T) {
	h, fb := newTestServer(t, &stubModel{reply: "ok"})

	tests := []struct {
		name string
		body string
	}{
		{"missing conversation id", `{"rating":4}`},
		{"rating too low", `{"conversation_id":"c","rating":0}`},
		{"rating too high", `{"conversation_id":"c","rating":6}`},
		{"malformed json", `{"rating":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h, "/api/chat/feedback", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	saved, err := fb.RecentFeedback(10)
	require.NoError(t, err)
	assert.Empty(t, saved, "rejected feedback must not be stored")
}

func TestHealthEndpoints(t *testing.T) {
	h, _ := newTestServer(t, &stubModel{reply: "ok"})

	rec := get(t, h, "/api/chat/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"chat"}`, rec.Body.String())

	rec = get(t, h, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","model_configured":true}`, rec.Body.String())

	rec = get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	var banner map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &banner))
	assert.Equal(t, "running", banner["status"])
	assert.Equal(t, api.Version, banner["version"])
	assert.True(t, strings.Contains(banner["message"], "Clara"))
}

func TestCORSHeaders(t *testing.T) {
	h, _ := newTestServer(t, &stubModel{reply: "ok"})

	req := httptest.NewRequest(http.MethodOptions, "/api/chat/message", nil)
	req.Header.Set("Origin", "https://rizecleaning.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}
