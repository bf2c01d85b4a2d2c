package hub

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/knowledge"
	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/shared"
	"github.com/eduagent-hub/edu-tutor-agent/pkg/logger"
)

// MessageType identifies an agent-to-agent message kind.
type MessageType string

// Supported message types.
const (
	MessageQuery           MessageType = "query"
	MessageResourceRequest MessageType = "resource_request"
	MessageKnowledgeShare  MessageType = "knowledge_share"
	MessageStatus          MessageType = "status"
)

// Request is a message from a peer agent.
type Request struct {
	RequestID     string                 `json:"request_id"`
	SenderAgent   string                 `json:"sender_agent"`
	ReceiverAgent string                 `json:"receiver_agent"`
	Type          MessageType            `json:"message_type"`
	Content       map[string]interface{} `json:"content"`
	Timestamp     time.Time              `json:"timestamp"`
}

// Response statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response answers a peer agent's request.
type Response struct {
	ResponseID    string                 `json:"response_id"`
	RequestID     string                 `json:"request_id"`
	SenderAgent   string                 `json:"sender_agent"`
	ReceiverAgent string                 `json:"receiver_agent"`
	Status        string                 `json:"status"`
	Content       map[string]interface{} `json:"content"`
	Timestamp     time.Time              `json:"timestamp"`
}

// Handler processes one message type's content.
type Handler func(ctx context.Context, content map[string]interface{}) (map[string]interface{}, error)

// KnowledgeShare is a knowledge payload received from a peer agent.
type KnowledgeShare struct {
	From          string                 `json:"from"`
	KnowledgeType string                 `json:"knowledge_type"`
	Content       map[string]interface{} `json:"content"`
	ReceivedAt    time.Time              `json:"received_at"`
}

// Stats summarizes communicator activity for status reports.
type Stats struct {
	CompletedRequests int `json:"completed_requests"`
	FailedRequests    int `json:"failed_requests"`
	KnowledgeShares   int `json:"knowledge_shares"`
}

// Communicator dispatches incoming agent messages to registered handlers.
type Communicator struct {
	address string
	log     *logger.Logger

	mu        sync.Mutex
	handlers  map[MessageType]Handler
	shares    []KnowledgeShare
	completed int
	failed    int
}

// NewCommunicator creates a communicator identified by this agent's address.
func NewCommunicator(address string, log *logger.Logger) *Communicator {
	if log == nil {
		log = logger.Default()
	}
	return &Communicator{
		address:  address,
		log:      log,
		handlers: make(map[MessageType]Handler),
	}
}

// RegisterHandler sets the handler for a message type, replacing any previous
// one.
func (c *Communicator) RegisterHandler(messageType MessageType, handler Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[messageType] = handler
}

// HandleRequest dispatches a request and always produces a response: handler
// errors and unknown message types come back as error-status responses rather
// than dropped messages.
func (c *Communicator) HandleRequest(ctx context.Context, req Request) Response {
	c.mu.Lock()
	handler, ok := c.handlers[req.Type]
	c.mu.Unlock()

	if !ok {
		c.log.Warn("unhandled agent message",
			logger.String("type", string(req.Type)),
			logger.String("sender", req.SenderAgent))
		return c.respond(req, StatusError, map[string]interface{}{
			"error": shared.ErrUnknownMessage.Error(),
		})
	}

	content, err := handler(ctx, req.Content)
	if err != nil {
		c.mu.Lock()
		c.failed++
		c.mu.Unlock()
		return c.respond(req, StatusError, map[string]interface{}{
			"error": err.Error(),
		})
	}

	c.mu.Lock()
	c.completed++
	c.mu.Unlock()
	return c.respond(req, StatusSuccess, content)
}

func (c *Communicator) respond(req Request, status string, content map[string]interface{}) Response {
	return Response{
		ResponseID:    uuid.New().String(),
		RequestID:     req.RequestID,
		SenderAgent:   c.address,
		ReceiverAgent: req.SenderAgent,
		Status:        status,
		Content:       content,
		Timestamp:     time.Now(),
	}
}

// Shares returns the received knowledge shares, oldest first.
func (c *Communicator) Shares() []KnowledgeShare {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]KnowledgeShare, len(c.shares))
	copy(out, c.shares)
	return out
}

// Stats returns communicator activity counters.
func (c *Communicator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		CompletedRequests: c.completed,
		FailedRequests:    c.failed,
		KnowledgeShares:   len(c.shares),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Tutor handlers
// ─────────────────────────────────────────────────────────────────────────────

// RegisterTutorHandlers wires the standard tutoring handlers: peer queries
// resolve through the knowledge base at intermediate difficulty, resource
// requests serve catalog practice problems, knowledge shares are stored, and
// status reports registry and communicator state.
func (c *Communicator) RegisterTutorHandlers(resolver *knowledge.Resolver, catalog *knowledge.Catalog, registry *Registry) {
	c.RegisterHandler(MessageQuery, func(_ context.Context, content map[string]interface{}) (map[string]interface{}, error) {
		concept := shared.NewConceptType(stringValue(content, "concept_type"))
		record := resolver.Resolve(concept, shared.DefaultDifficulty)
		return map[string]interface{}{
			"explanation": record.Explanation,
			"key_points":  record.KeyPoints,
			"examples":    record.Examples,
		}, nil
	})

	c.RegisterHandler(MessageResourceRequest, func(_ context.Context, content map[string]interface{}) (map[string]interface{}, error) {
		topic := shared.NewConceptType(stringValue(content, "topic"))
		record := resolver.Resolve(topic, shared.DefaultDifficulty)
		return map[string]interface{}{
			"resource_type": "practice_problems",
			"topic":         topic.String(),
			"resources":     record.PracticeProblems,
		}, nil
	})

	c.RegisterHandler(MessageKnowledgeShare, func(_ context.Context, content map[string]interface{}) (map[string]interface{}, error) {
		share := KnowledgeShare{
			From:          stringValue(content, "source_agent"),
			KnowledgeType: stringValue(content, "knowledge_type"),
			ReceivedAt:    time.Now(),
		}
		if inner, ok := content["content"].(map[string]interface{}); ok {
			share.Content = inner
		}

		c.mu.Lock()
		c.shares = append(c.shares, share)
		c.mu.Unlock()

		return map[string]interface{}{
			"message": "knowledge of type '" + share.KnowledgeType + "' received",
		}, nil
	})

	c.RegisterHandler(MessageStatus, func(_ context.Context, _ map[string]interface{}) (map[string]interface{}, error) {
		stats := c.Stats()
		return map[string]interface{}{
			"address":            c.address,
			"known_concepts":     catalog.Concepts(),
			"connected_agents":   registry.Count(),
			"completed_requests": stats.CompletedRequests,
			"knowledge_shares":   stats.KnowledgeShares,
		}, nil
	})
}

func stringValue(content map[string]interface{}, key string) string {
	if v, ok := content[key].(string); ok {
		return v
	}
	return ""
}
