// Package hub implements the agent-network side of the tutor: a registry of
// peer agents with heartbeat-based liveness, and a typed message dispatcher
// for agent-to-agent requests.
package hub

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/shared"
	"github.com/eduagent-hub/edu-tutor-agent/pkg/logger"
)

// DefaultAgentTTL is how long an agent stays live without a heartbeat.
const DefaultAgentTTL = 5 * time.Minute

// AgentProfile describes one registered peer agent.
type AgentProfile struct {
	// Address is the agent's unique network address.
	Address string `json:"address"`

	// Name is a human-readable agent name.
	Name string `json:"name"`

	// Capabilities lists what the agent can do (e.g. "tutoring", "grading").
	Capabilities []string `json:"capabilities"`

	// RegisteredAt is when the agent first registered.
	RegisteredAt time.Time `json:"registered_at"`

	// LastSeen is the most recent registration or heartbeat.
	LastSeen time.Time `json:"last_seen"`
}

// Registry tracks peer agents. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]AgentProfile
	ttl    time.Duration
	events shared.EventPublisher // optional
	log    *logger.Logger
	now    func() time.Time
}

// NewRegistry creates a registry. events may be nil.
func NewRegistry(ttl time.Duration, events shared.EventPublisher, log *logger.Logger) *Registry {
	if ttl <= 0 {
		ttl = DefaultAgentTTL
	}
	if log == nil {
		log = logger.Default()
	}
	return &Registry{
		agents: make(map[string]AgentProfile),
		ttl:    ttl,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

// Register adds an agent or refreshes an existing registration. Re-registering
// updates the profile and counts as a heartbeat.
func (r *Registry) Register(ctx context.Context, profile AgentProfile) error {
	if profile.Address == "" {
		return shared.ErrEmptyAgentAddress
	}

	now := r.now()
	r.mu.Lock()
	existing, known := r.agents[profile.Address]
	if known {
		profile.RegisteredAt = existing.RegisteredAt
	} else {
		profile.RegisteredAt = now
	}
	profile.LastSeen = now
	r.agents[profile.Address] = profile
	r.mu.Unlock()

	if !known {
		r.log.Info("agent registered",
			logger.String("address", profile.Address),
			logger.String("name", profile.Name))
		if r.events != nil {
			if err := r.events.Publish(ctx, shared.NewAgentRegisteredEvent(profile.Address, profile.Name)); err != nil {
				r.log.Warn("agent event publish failed", logger.Err(err))
			}
		}
	}
	return nil
}

// Heartbeat refreshes an agent's liveness.
func (r *Registry) Heartbeat(address string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, ok := r.agents[address]
	if !ok {
		return shared.ErrAgentNotFound
	}
	profile.LastSeen = r.now()
	r.agents[address] = profile
	return nil
}

// Find returns an agent's profile.
func (r *Registry) Find(address string) (AgentProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.agents[address]
	if !ok {
		return AgentProfile{}, shared.ErrAgentNotFound
	}
	return profile, nil
}

// List returns all registered agents, sorted by address.
func (r *Registry) List() []AgentProfile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]AgentProfile, 0, len(r.agents))
	for _, p := range r.agents {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

// Count returns the number of registered agents.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}

// SweepStale removes agents whose last heartbeat is older than the TTL and
// returns their addresses. Called periodically by the scheduler.
func (r *Registry) SweepStale(ctx context.Context) []string {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var expired []string
	for address, profile := range r.agents {
		if profile.LastSeen.Before(cutoff) {
			delete(r.agents, address)
			expired = append(expired, address)
		}
	}
	r.mu.Unlock()

	for _, address := range expired {
		r.log.Info("agent expired", logger.String("address", address))
		if r.events != nil {
			if err := r.events.Publish(ctx, shared.NewAgentExpiredEvent(address)); err != nil {
				r.log.Warn("agent event publish failed", logger.Err(err))
			}
		}
	}
	return expired
}
