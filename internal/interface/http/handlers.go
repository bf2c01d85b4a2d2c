package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eduagent-hub/edu-tutor-agent/internal/application/command"
	"github.com/eduagent-hub/edu-tutor-agent/internal/application/query"
	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/shared"
	"github.com/eduagent-hub/edu-tutor-agent/internal/infrastructure/hub"
)

// ══════════════════════════════════════════════════════════════════════════════
// TUTORING ENDPOINTS
// ══════════════════════════════════════════════════════════════════════════════

// askRequest is the POST /api/ask body.
type askRequest struct {
	Question        string `json:"question"`
	ConceptType     string `json:"concept_type"`
	DifficultyLevel string `json:"difficulty_level"`
	StudentID       string `json:"student_id"`
	SessionID       string `json:"session_id"`
}

// askResponse wraps the explanation with the session that owns its history.
type askResponse struct {
	SessionID string `json:"session_id"`
	command.AskQuestionResult
}

// handleAsk serves POST /api/ask. The session comes from the X-Session-ID
// header, then the body, and a fresh one is generated for first-time callers;
// either way it is echoed back in the X-Session-ID response header.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "question is required")
		return
	}

	sessionID := r.Header.Get("X-Session-ID")
	if sessionID == "" {
		sessionID = req.SessionID
	}
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	result, err := s.deps.AskQuestion.Handle(r.Context(), command.AskQuestionCommand{
		SessionID:       sessionID,
		Question:        req.Question,
		ConceptType:     req.ConceptType,
		DifficultyLevel: req.DifficultyLevel,
		StudentID:       req.StudentID,
	})
	if err != nil {
		if shared.IsValidation(err) {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "ask_failed", err.Error())
		return
	}

	w.Header().Set("X-Session-ID", sessionID)
	writeJSON(w, http.StatusOK, askResponse{SessionID: sessionID, AskQuestionResult: result})
}

// handleGetHistory serves GET /api/sessions/{id}/history.
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetHistory.Handle(r.Context(), query.GetHistoryQuery{
		SessionID: r.PathValue("id"),
	})
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetConcepts serves GET /api/concepts.
func (s *Server) handleGetConcepts(w http.ResponseWriter, r *http.Request) {
	result := s.deps.ListCatalog.Handle(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"concepts":     result.Concepts,
		"total_topics": result.TotalTopics,
	})
}

// handleGetDifficultyLevels serves GET /api/difficulty-levels.
func (s *Server) handleGetDifficultyLevels(w http.ResponseWriter, r *http.Request) {
	result := s.deps.ListCatalog.Handle(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"difficulty_levels": result.Difficulty,
		"default":           shared.DefaultDifficulty.String(),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT ENDPOINTS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetProgress serves GET /api/students/{id}/progress.
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetProgress.Handle(r.Context(), query.GetProgressQuery{
		StudentID: r.PathValue("id"),
	})
	if err != nil {
		switch {
		case shared.IsNotFound(err):
			writeJSONError(w, http.StatusNotFound, "not_found", "no progress recorded for this student")
		case shared.IsValidation(err):
			writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			writeJSONError(w, http.StatusInternalServerError, "progress_failed", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetLedger serves GET /api/students/{id}/ledger.
func (s *Server) handleGetLedger(w http.ResponseWriter, r *http.Request) {
	studentID := r.PathValue("id")
	receipts := s.deps.Ledger.ReceiptsForStudent(studentID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"student_id": studentID,
		"receipts":   receipts,
		"verified":   s.deps.Ledger.Verify(),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// AGENT NETWORK ENDPOINTS
// ══════════════════════════════════════════════════════════════════════════════

// handleAgentInfo serves GET /api/agent/info.
func (s *Server) handleAgentInfo(w http.ResponseWriter, r *http.Request) {
	catalog := s.deps.ListCatalog.Handle(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"agent":            s.deps.Agent,
		"total_topics":     catalog.TotalTopics,
		"connected_agents": s.deps.Registry.Count(),
		"uptime_seconds":   int(s.Uptime().Seconds()),
	})
}

// handleListAgents serves GET /api/agents.
func (s *Server) handleListAgents(w http.ResponseWriter, _ *http.Request) {
	agents := s.deps.Registry.List()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"agents": agents,
		"count":  len(agents),
	})
}

// registerAgentRequest is the POST /api/agents/register body.
type registerAgentRequest struct {
	Address      string   `json:"address"`
	Name         string   `json:"name"`
	Capabilities []string `json:"capabilities"`
}

// handleRegisterAgent serves POST /api/agents/register.
func (s *Server) handleRegisterAgent(w http.ResponseWriter, r *http.Request) {
	var req registerAgentRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	err := s.deps.Registry.Register(r.Context(), hub.AgentProfile{
		Address:      req.Address,
		Name:         req.Name,
		Capabilities: req.Capabilities,
	})
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"address":    req.Address,
		"registered": true,
	})
}

// handleHeartbeat serves POST /api/agents/{address}/heartbeat.
func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	if err := s.deps.Registry.Heartbeat(address); err != nil {
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"address": address, "alive": true})
}

// handleAgentMessage serves POST /api/agent/message: the HTTP transport for
// agent-to-agent requests. The dispatcher always answers, so the HTTP status
// is 200 even for error-status responses.
func (s *Server) handleAgentMessage(w http.ResponseWriter, r *http.Request) {
	var req hub.Request
	if err := decodeJSONBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	resp := s.deps.Communicator.HandleRequest(r.Context(), req)
	writeJSON(w, http.StatusOK, resp)
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & ROOT
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves GET /.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":    s.deps.Agent.Name,
		"version": s.deps.Agent.Version,
		"status":  "running",
	})
}

// healthCheckTimeout bounds each component probe.
const healthCheckTimeout = 2 * time.Second

// handleHealth serves GET /health. Component failures degrade the status but
// the endpoint itself stays 200 unless every component is down.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	components := make(map[string]string, len(s.deps.HealthChecks))
	healthy := 0
	for name, ping := range s.deps.HealthChecks {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		if err := ping(ctx); err != nil {
			components[name] = "unhealthy: " + err.Error()
		} else {
			components[name] = "healthy"
			healthy++
		}
		cancel()
	}

	status := "healthy"
	code := http.StatusOK
	if len(components) > 0 && healthy == 0 {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	} else if healthy < len(components) {
		status = "degraded"
	}

	writeJSON(w, code, map[string]interface{}{
		"status":     status,
		"components": components,
		"version":    s.deps.Agent.Version,
	})
}
