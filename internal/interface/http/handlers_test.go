package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduagent-hub/edu-tutor-agent/internal/application/command"
	"github.com/eduagent-hub/edu-tutor-agent/internal/application/eventhandler"
	"github.com/eduagent-hub/edu-tutor-agent/internal/application/query"
	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/history"
	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/knowledge"
	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/shared"
	"github.com/eduagent-hub/edu-tutor-agent/internal/infrastructure/hub"
	"github.com/eduagent-hub/edu-tutor-agent/internal/infrastructure/ledger"
	"github.com/eduagent-hub/edu-tutor-agent/internal/infrastructure/messaging"
	"github.com/eduagent-hub/edu-tutor-agent/internal/infrastructure/persistence/memory"
)

// newTestServer wires the full stack on in-memory infrastructure with a
// synchronous bus, so side effects are visible right after each request.
func newTestServer(t *testing.T) *Server {
	return newTestServerWithConfig(t, DefaultConfig())
}

func newTestServerWithConfig(t *testing.T, cfg Config) *Server {
	t.Helper()

	catalog := knowledge.DefaultCatalog()
	resolver := knowledge.NewResolver(catalog)
	sessions := history.NewManager(memory.NewSessionStore())
	repo := memory.NewProgressRepository()
	audit := ledger.New()
	registry := hub.NewRegistry(hub.DefaultAgentTTL, nil, nil)
	comm := hub.NewCommunicator("agent1qtest", nil)
	comm.RegisterTutorHandlers(resolver, catalog, registry)

	busCfg := messaging.DefaultConfig(nil)
	busCfg.Async = false
	bus := messaging.NewBus(busCfg)
	t.Cleanup(func() { _ = bus.Close() })
	require.NoError(t, bus.Subscribe(shared.EventQuestionAsked, eventhandler.NewOnQuestionAsked(repo, bus, nil).Handle))
	require.NoError(t, bus.Subscribe(shared.EventProgressRecorded, eventhandler.NewOnProgressRecorded(audit, nil).Handle))

	deps := Dependencies{
		AskQuestion:  command.NewAskQuestionHandler(resolver, sessions, bus, nil, nil),
		GetHistory:   query.NewGetHistoryHandler(sessions),
		GetProgress:  query.NewGetProgressHandler(repo),
		ListCatalog:  query.NewListCatalogHandler(catalog),
		Registry:     registry,
		Communicator: comm,
		Ledger:       audit,
		Agent: AgentInfo{
			Address:      "agent1qtest",
			Name:         "edu-tutor",
			Version:      "1.0.0",
			Capabilities: []string{"tutoring"},
		},
	}
	return NewServer(cfg, deps)
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var envelope struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, "expected success envelope, got: %s", rec.Body.String())
	return envelope.Data
}

// ─────────────────────────────────────────────────────────────────────────────
// Ask endpoint
// ─────────────────────────────────────────────────────────────────────────────

func TestAsk_ReturnsExplanationAndSession(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/ask", map[string]string{
		"question":         "How do derivatives work?",
		"concept_type":     "calculus",
		"difficulty_level": "intermediate",
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Session-ID"))

	data := decodeData(t, rec)
	assert.Equal(t, "calculus", data["concept_type"])
	assert.Equal(t, "intermediate", data["difficulty_level"])
	assert.NotEmpty(t, data["explanation"])
	assert.NotEmpty(t, data["session_id"])
}

func TestAsk_EmptyQuestionRejected(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/ask", map[string]string{
		"question":     "   ",
		"concept_type": "algebra",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "question is required")
}

func TestAsk_SessionHeaderIsReused(t *testing.T) {
	srv := newTestServer(t)
	headers := map[string]string{"X-Session-ID": "sess-42"}

	rec := doJSON(t, srv, http.MethodPost, "/api/ask", map[string]string{
		"question":     "What is x?",
		"concept_type": "algebra",
	}, headers)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sess-42", rec.Header().Get("X-Session-ID"))
	data := decodeData(t, rec)
	assert.Equal(t, "sess-42", data["session_id"])
}

func TestAsk_UnknownDifficultyNormalized(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/ask", map[string]string{
		"question":         "Explain sorting",
		"concept_type":     "algorithms",
		"difficulty_level": "impossible",
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, "intermediate", data["difficulty_level"])
}

// ─────────────────────────────────────────────────────────────────────────────
// History endpoint
// ─────────────────────────────────────────────────────────────────────────────

func TestGetHistory_ReturnsAskedQuestions(t *testing.T) {
	srv := newTestServer(t)
	headers := map[string]string{"X-Session-ID": "sess-h"}

	for _, q := range []string{"first question", "second question"} {
		rec := doJSON(t, srv, http.MethodPost, "/api/ask", map[string]string{
			"question":     q,
			"concept_type": "algebra",
		}, headers)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/sessions/sess-h/history", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	items := data["items"].([]interface{})
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "second question", first["question_summary"])
}

func TestGetHistory_UnknownSessionIsEmpty(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/sessions/never-seen/history", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Empty(t, data["items"])
}

// ─────────────────────────────────────────────────────────────────────────────
// Catalog endpoints
// ─────────────────────────────────────────────────────────────────────────────

func TestGetConcepts(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/concepts", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	concepts := data["concepts"].([]interface{})
	assert.NotEmpty(t, concepts)
	values := make([]string, 0, len(concepts))
	for _, c := range concepts {
		values = append(values, c.(map[string]interface{})["value"].(string))
	}
	assert.Contains(t, values, "algebra")
	assert.Contains(t, values, "data-structures")
}

func TestGetDifficultyLevels(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/difficulty-levels", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	levels := data["difficulty_levels"].([]interface{})
	require.Len(t, levels, 3)
	assert.Equal(t, "intermediate", data["default"])
}

// ─────────────────────────────────────────────────────────────────────────────
// Student endpoints
// ─────────────────────────────────────────────────────────────────────────────

func TestGetProgress_UnknownStudent(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/students/ghost/progress", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProgress_AfterAsking(t *testing.T) {
	srv := newTestServer(t)

	recAsk := doJSON(t, srv, http.MethodPost, "/api/ask", map[string]string{
		"question":     "What is x?",
		"concept_type": "algebra",
		"student_id":   "alice",
	}, nil)
	require.Equal(t, http.StatusOK, recAsk.Code)

	rec := doJSON(t, srv, http.MethodGet, "/api/students/alice/progress", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	assert.Equal(t, float64(1), data["questions_asked"])
	assert.Equal(t, float64(10), data["score"])
	assert.Equal(t, []interface{}{"algebra"}, data["concepts_practiced"])
}

func TestGetLedger_ReceiptsAfterAsking(t *testing.T) {
	srv := newTestServer(t)

	recAsk := doJSON(t, srv, http.MethodPost, "/api/ask", map[string]string{
		"question":     "What is x?",
		"concept_type": "algebra",
		"student_id":   "bob",
	}, nil)
	require.Equal(t, http.StatusOK, recAsk.Code)

	rec := doJSON(t, srv, http.MethodGet, "/api/students/bob/ledger", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	receipts := data["receipts"].([]interface{})
	require.Len(t, receipts, 1)
	assert.Equal(t, true, data["verified"])
}

// ─────────────────────────────────────────────────────────────────────────────
// Agent network endpoints
// ─────────────────────────────────────────────────────────────────────────────

func TestAgentRegistrationAndListing(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/agents/register", map[string]interface{}{
		"address":      "agent1qpeer",
		"name":         "peer",
		"capabilities": []string{"grading"},
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/agents", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, float64(1), data["count"])

	rec = doJSON(t, srv, http.MethodPost, "/api/agents/agent1qpeer/heartbeat", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/agents/agent1qghost/heartbeat", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAgentMessage_QueryDispatched(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/agent/message", map[string]interface{}{
		"request_id":   "req-9",
		"sender_agent": "agent1qpeer",
		"message_type": "query",
		"content":      map[string]interface{}{"concept_type": "python"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	assert.Equal(t, "success", data["status"])
	assert.Equal(t, "req-9", data["request_id"])
}

// ─────────────────────────────────────────────────────────────────────────────
// Health and root
// ─────────────────────────────────────────────────────────────────────────────

func TestHealth_NoComponentsIsHealthy(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, "healthy", data["status"])
}

func TestHealth_DegradedComponent(t *testing.T) {
	srv := newTestServer(t)
	srv.deps.HealthChecks = map[string]Pinger{
		"redis":    func(context.Context) error { return nil },
		"postgres": func(context.Context) error { return errors.New("connection refused") },
	}

	rec := doJSON(t, srv, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, "degraded", data["status"])
}

func TestRoot(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, "edu-tutor", data["name"])
}

func TestRateLimit_Returns429OverLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 3
	srv := newTestServerWithConfig(t, cfg)

	for i := 0; i < 3; i++ {
		rec := doJSON(t, srv, http.MethodGet, "/api/concepts", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/concepts", nil, nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}
