package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/shared"
)

type recordingPublisher struct {
	events []shared.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e shared.Event) error {
	p.events = append(p.events, e)
	return nil
}

func TestRegister_AddsAgentAndPublishesEvent(t *testing.T) {
	pub := &recordingPublisher{}
	reg := NewRegistry(DefaultAgentTTL, pub, nil)

	err := reg.Register(context.Background(), AgentProfile{
		Address:      "agent1qpeer",
		Name:         "math-helper",
		Capabilities: []string{"tutoring"},
	})
	require.NoError(t, err)

	profile, err := reg.Find("agent1qpeer")
	require.NoError(t, err)
	assert.Equal(t, "math-helper", profile.Name)
	assert.False(t, profile.RegisteredAt.IsZero())
	assert.Equal(t, 1, reg.Count())

	require.Len(t, pub.events, 1)
	assert.Equal(t, shared.EventAgentRegistered, pub.events[0].EventType())
}

func TestRegister_EmptyAddressRejected(t *testing.T) {
	reg := NewRegistry(DefaultAgentTTL, nil, nil)
	err := reg.Register(context.Background(), AgentProfile{Name: "nameless"})
	assert.ErrorIs(t, err, shared.ErrEmptyAgentAddress)
}

func TestRegister_ReRegistrationKeepsOriginalTimestamp(t *testing.T) {
	pub := &recordingPublisher{}
	reg := NewRegistry(DefaultAgentTTL, pub, nil)
	ctx := context.Background()

	require.NoError(t, reg.Register(ctx, AgentProfile{Address: "agent1qpeer", Name: "v1"}))
	first, _ := reg.Find("agent1qpeer")

	require.NoError(t, reg.Register(ctx, AgentProfile{Address: "agent1qpeer", Name: "v2"}))
	second, _ := reg.Find("agent1qpeer")

	assert.Equal(t, first.RegisteredAt, second.RegisteredAt)
	assert.Equal(t, "v2", second.Name)
	assert.Equal(t, 1, reg.Count())
	// Only the first registration publishes.
	assert.Len(t, pub.events, 1)
}

func TestHeartbeat_UnknownAgent(t *testing.T) {
	reg := NewRegistry(DefaultAgentTTL, nil, nil)
	assert.ErrorIs(t, reg.Heartbeat("agent1qghost"), shared.ErrAgentNotFound)
}

func TestSweepStale_RemovesExpiredAgents(t *testing.T) {
	pub := &recordingPublisher{}
	reg := NewRegistry(time.Minute, pub, nil)
	ctx := context.Background()

	now := time.Now()
	reg.now = func() time.Time { return now }
	require.NoError(t, reg.Register(ctx, AgentProfile{Address: "agent1qstale"}))

	// Fresh agent registered later.
	reg.now = func() time.Time { return now.Add(50 * time.Second) }
	require.NoError(t, reg.Register(ctx, AgentProfile{Address: "agent1qfresh"}))

	reg.now = func() time.Time { return now.Add(90 * time.Second) }
	expired := reg.SweepStale(ctx)

	assert.Equal(t, []string{"agent1qstale"}, expired)
	assert.Equal(t, 1, reg.Count())
	_, err := reg.Find("agent1qstale")
	assert.ErrorIs(t, err, shared.ErrAgentNotFound)

	// Registration events for both plus one expiry.
	require.Len(t, pub.events, 3)
	assert.Equal(t, shared.EventAgentExpired, pub.events[2].EventType())
}

func TestHeartbeat_KeepsAgentAlive(t *testing.T) {
	reg := NewRegistry(time.Minute, nil, nil)
	ctx := context.Background()

	now := time.Now()
	reg.now = func() time.Time { return now }
	require.NoError(t, reg.Register(ctx, AgentProfile{Address: "agent1qpeer"}))

	reg.now = func() time.Time { return now.Add(50 * time.Second) }
	require.NoError(t, reg.Heartbeat("agent1qpeer"))

	reg.now = func() time.Time { return now.Add(90 * time.Second) }
	assert.Empty(t, reg.SweepStale(ctx))
	assert.Equal(t, 1, reg.Count())
}

func TestList_SortedByAddress(t *testing.T) {
	reg := NewRegistry(DefaultAgentTTL, nil, nil)
	ctx := context.Background()

	require.NoError(t, reg.Register(ctx, AgentProfile{Address: "agent1qzz"}))
	require.NoError(t, reg.Register(ctx, AgentProfile{Address: "agent1qaa"}))

	agents := reg.List()
	require.Len(t, agents, 2)
	assert.Equal(t, "agent1qaa", agents[0].Address)
	assert.Equal(t, "agent1qzz", agents[1].Address)
}
