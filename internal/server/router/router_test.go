package router

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/UkemeSkywalker/Quanta/internal/agent"
	"github.com/UkemeSkywalker/Quanta/internal/hub"
	"github.com/UkemeSkywalker/Quanta/internal/notification"
	"github.com/UkemeSkywalker/Quanta/internal/server/handler"
	"github.com/UkemeSkywalker/Quanta/internal/workflow"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *hub.Hub, *workflow.Tracker) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	connHub := hub.NewHub(logger)
	tracker := workflow.NewTracker()
	agents := agent.NewFactory(&agent.Config{
		Provider: agent.ProviderSimulated,
		Logger:   logger,
	})

	deps := &handler.Dependencies{
		Logger:  logger,
		Hub:     connHub,
		Tracker: tracker,
		Agents:  agents,
		Stages: []workflow.Stage{
			{Name: "Research", Duration: time.Millisecond, Message: "researching"},
			{Name: "Data", Duration: time.Millisecond, Message: "crunching"},
		},
		Broadcaster: connHub,
		Run:         agents.Run(),
		AppName:     "quanta-api",
		AppVersion:  "1.0.0",
	}

	return SetupRouter(deps), connHub, tracker
}

func TestHealthEndpoint(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "quanta-api", body["service"])
}

func TestInfoEndpoint(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/info", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "quanta-api", body["service"])
	assert.Contains(t, body, "agents")
	assert.Contains(t, body, "endpoints")
}

func TestSubmitResearch(t *testing.T) {
	r, _, tracker := setupTestRouter(t)

	payload := `{"query":"Analyze the impact of AI on research productivity","user_id":"test_user","priority":3}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/research/submit", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	workflowID, _ := body["workflow_id"].(string)
	assert.True(t, strings.HasPrefix(workflowID, "workflow_test_user_"))
	assert.Equal(t, "initiated", body["status"])
	assert.Equal(t, 1, tracker.Count())

	// The workflow status surface knows about the new workflow right away.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/workflow/"+workflowID+"/status", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, workflowID, body["workflow_id"])
	assert.Contains(t, []string{"pending", "running", "completed"}, body["status"])
}

func TestSubmitResearch_UniqueWorkflowIDs(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	ids := make(map[string]bool)
	for i := 0; i < 3; i++ {
		payload := `{"query":"Analyze the impact of AI on research productivity","user_id":"test_user"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/research/submit", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		ids[body["workflow_id"]] = true
	}

	// The same user submitting the same query must never collide.
	assert.Len(t, ids, 3)
}

func TestSubmitResearch_MultiByteQueryPreview(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	query := strings.Repeat("研究データの分析", 10)
	payload := fmt.Sprintf(`{"query":%q,"user_id":"u1"}`, query)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/research/submit", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	// Truncation must not cut a rune in half.
	assert.True(t, utf8.ValidString(body["message"]))
	assert.Contains(t, body["message"], string([]rune(query)[:50])+"...")
}

func TestSubmitResearch_Validation(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "query too short", payload: `{"query":"hi","user_id":"u1"}`},
		{name: "missing user_id", payload: `{"query":"a sufficiently long query"}`},
		{name: "priority out of range", payload: `{"query":"a sufficiently long query","user_id":"u1","priority":10}`},
		{name: "not json", payload: `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := setupTestRouter(t)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/research/submit", strings.NewReader(tt.payload))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		})
	}
}

func TestWorkflowStatus_NotFound(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/workflow/workflow_u1_missing/status", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebSocketStatus(t *testing.T) {
	r, connHub, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/websocket/status", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(connHub.Count()), body["active_connections"])
	assert.Contains(t, body, "agents")
}

func TestWebSocketEndpoint(t *testing.T) {
	r, connHub, _ := setupTestRouter(t)

	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/test_client_123"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Connection envelope arrives first.
	var env notification.Envelope
	require.NoError(t, conn.ReadJSON(&env))
	assert.Equal(t, notification.TypeConnection, env.Type)
	assert.Equal(t, "test_client_123", env.ClientID)
	assert.Equal(t, 1, connHub.Count())

	// Ping round trip.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	require.NoError(t, conn.ReadJSON(&env))
	assert.Equal(t, notification.TypePong, env.Type)

	// Free text is echoed back.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hello server")))
	require.NoError(t, conn.ReadJSON(&env))
	assert.Equal(t, notification.TypeEcho, env.Type)
	assert.Contains(t, env.Content, "hello server")
}
