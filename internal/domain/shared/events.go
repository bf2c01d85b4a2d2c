// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"context"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - these drive the event-driven parts of the agent.
const (
	// Tutor events
	EventQuestionAsked      EventType = "tutor.question_asked"
	EventHistoryStoreFailed EventType = "tutor.history_store_failed"

	// Progress events
	EventProgressRecorded    EventType = "progress.recorded"
	EventAchievementUnlocked EventType = "progress.achievement_unlocked"

	// Hub events
	EventAgentRegistered EventType = "hub.agent_registered"
	EventAgentExpired    EventType = "hub.agent_expired"

	// Resource events
	EventResourceFetchFailed EventType = "resources.fetch_failed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
	}
}

// EventHandler processes a single published event.
type EventHandler func(ctx context.Context, event Event) error

// EventPublisher publishes domain events to subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// EventBus is a publisher that also accepts subscriptions.
type EventBus interface {
	EventPublisher

	// Subscribe registers a handler for a specific event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// Close stops the bus and waits for in-flight handlers.
	Close() error
}

// ═══════════════════════════════════════════════════════════════════════════
// Concrete events
// ═══════════════════════════════════════════════════════════════════════════

// QuestionAskedEvent is published after every successful ask.
type QuestionAskedEvent struct {
	BaseEvent
	SessionID  SessionID       `json:"session_id"`
	StudentID  StudentID       `json:"student_id,omitempty"`
	Concept    ConceptType     `json:"concept"`
	Difficulty DifficultyLevel `json:"difficulty"`
	Question   string          `json:"question"`
}

// NewQuestionAskedEvent creates a QuestionAskedEvent.
func NewQuestionAskedEvent(sessionID SessionID, studentID StudentID, concept ConceptType, difficulty DifficultyLevel, question string) QuestionAskedEvent {
	return QuestionAskedEvent{
		BaseEvent:  NewBaseEvent(EventQuestionAsked, sessionID.String()),
		SessionID:  sessionID,
		StudentID:  studentID,
		Concept:    concept,
		Difficulty: difficulty,
		Question:   question,
	}
}

// Payload implements Event interface.
func (e QuestionAskedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id": e.SessionID.String(),
		"student_id": e.StudentID.String(),
		"concept":    e.Concept.String(),
		"difficulty": e.Difficulty.String(),
		"question":   e.Question,
	}
}

// HistoryStoreFailedEvent is published when the session store save fails.
// The ask that triggered the save still succeeds.
type HistoryStoreFailedEvent struct {
	BaseEvent
	SessionID SessionID `json:"session_id"`
	Reason    string    `json:"reason"`
}

// NewHistoryStoreFailedEvent creates a HistoryStoreFailedEvent.
func NewHistoryStoreFailedEvent(sessionID SessionID, err error) HistoryStoreFailedEvent {
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	return HistoryStoreFailedEvent{
		BaseEvent: NewBaseEvent(EventHistoryStoreFailed, sessionID.String()),
		SessionID: sessionID,
		Reason:    reason,
	}
}

// Payload implements Event interface.
func (e HistoryStoreFailedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id": e.SessionID.String(),
		"reason":     e.Reason,
	}
}

// ProgressRecordedEvent is published after a student's progress is updated.
type ProgressRecordedEvent struct {
	BaseEvent
	StudentID      StudentID       `json:"student_id"`
	QuestionsAsked int             `json:"questions_asked"`
	Concepts       []string        `json:"concepts"`
	Difficulty     DifficultyLevel `json:"difficulty"`
	Score          float64         `json:"score"`
}

// NewProgressRecordedEvent creates a ProgressRecordedEvent.
func NewProgressRecordedEvent(studentID StudentID, questionsAsked int, concepts []string, difficulty DifficultyLevel, score float64) ProgressRecordedEvent {
	return ProgressRecordedEvent{
		BaseEvent:      NewBaseEvent(EventProgressRecorded, studentID.String()),
		StudentID:      studentID,
		QuestionsAsked: questionsAsked,
		Concepts:       concepts,
		Difficulty:     difficulty,
		Score:          score,
	}
}

// Payload implements Event interface.
func (e ProgressRecordedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":      e.StudentID.String(),
		"questions_asked": e.QuestionsAsked,
		"concepts":        e.Concepts,
		"difficulty":      e.Difficulty.String(),
		"score":           e.Score,
	}
}

// AchievementUnlockedEvent is published when a student unlocks an achievement.
type AchievementUnlockedEvent struct {
	BaseEvent
	StudentID   StudentID `json:"student_id"`
	Achievement string    `json:"achievement"`
	Points      int       `json:"points"`
}

// NewAchievementUnlockedEvent creates an AchievementUnlockedEvent.
func NewAchievementUnlockedEvent(studentID StudentID, achievement string, points int) AchievementUnlockedEvent {
	return AchievementUnlockedEvent{
		BaseEvent:   NewBaseEvent(EventAchievementUnlocked, studentID.String()),
		StudentID:   studentID,
		Achievement: achievement,
		Points:      points,
	}
}

// Payload implements Event interface.
func (e AchievementUnlockedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":  e.StudentID.String(),
		"achievement": e.Achievement,
		"points":      e.Points,
	}
}

// ResourceFetchFailedEvent is published when an external resource provider
// fetch fails. Enrichment is best-effort, so the ask that triggered the fetch
// still succeeds.
type ResourceFetchFailedEvent struct {
	BaseEvent
	Source  string      `json:"source"`
	Concept ConceptType `json:"concept"`
	Reason  string      `json:"reason"`
}

// NewResourceFetchFailedEvent creates a ResourceFetchFailedEvent.
func NewResourceFetchFailedEvent(source string, concept ConceptType, err error) ResourceFetchFailedEvent {
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	return ResourceFetchFailedEvent{
		BaseEvent: NewBaseEvent(EventResourceFetchFailed, source),
		Source:    source,
		Concept:   concept,
		Reason:    reason,
	}
}

// Payload implements Event interface.
func (e ResourceFetchFailedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"source":  e.Source,
		"concept": e.Concept.String(),
		"reason":  e.Reason,
	}
}

// AgentLifecycleEvent covers hub registration and expiry.
type AgentLifecycleEvent struct {
	BaseEvent
	AgentAddress string `json:"agent_address"`
	AgentName    string `json:"agent_name,omitempty"`
}

// NewAgentRegisteredEvent creates an AgentLifecycleEvent for a registration.
func NewAgentRegisteredEvent(address, name string) AgentLifecycleEvent {
	return AgentLifecycleEvent{
		BaseEvent:    NewBaseEvent(EventAgentRegistered, address),
		AgentAddress: address,
		AgentName:    name,
	}
}

// NewAgentExpiredEvent creates an AgentLifecycleEvent for a stale agent.
func NewAgentExpiredEvent(address string) AgentLifecycleEvent {
	return AgentLifecycleEvent{
		BaseEvent:    NewBaseEvent(EventAgentExpired, address),
		AgentAddress: address,
	}
}

// Payload implements Event interface.
func (e AgentLifecycleEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"agent_address": e.AgentAddress,
		"agent_name":    e.AgentName,
	}
}
