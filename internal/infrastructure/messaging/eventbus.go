// Package messaging implements the in-process event bus wiring the ask flow
// to its after-the-fact collaborators (progress, ledger, logging). Single
// instance only; there is no cross-process fanout.
package messaging

import (
	"context"
	"errors"
	"sync"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/shared"
	"github.com/eduagent-hub/edu-tutor-agent/pkg/logger"
)

// ErrBusClosed is returned when publishing to or subscribing on a closed bus.
var ErrBusClosed = errors.New("event bus is closed")

// Config contains configuration for the Bus.
type Config struct {
	// Async dispatches handlers on worker goroutines. Synchronous mode is
	// for tests and keeps publish ordering deterministic.
	Async bool

	// Workers bounds concurrent handler executions in async mode.
	Workers int

	// Logger for handler failures.
	Logger *logger.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(log *logger.Logger) Config {
	return Config{
		Async:   true,
		Workers: 8,
		Logger:  log,
	}
}

// Bus is an in-memory implementation of shared.EventBus.
type Bus struct {
	mu       sync.RWMutex
	handlers map[shared.EventType][]shared.EventHandler
	closed   bool

	async   bool
	workers chan struct{}
	wg      sync.WaitGroup
	log     *logger.Logger
}

// NewBus creates a new in-memory event bus.
func NewBus(cfg Config) *Bus {
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	return &Bus{
		handlers: make(map[shared.EventType][]shared.EventHandler),
		async:    cfg.Async,
		workers:  make(chan struct{}, cfg.Workers),
		log:      cfg.Logger,
	}
}

// Subscribe registers a handler for an event type.
func (b *Bus) Subscribe(eventType shared.EventType, handler shared.EventHandler) error {
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBusClosed
	}
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// Publish delivers an event to all handlers subscribed to its type. In async
// mode delivery happens on worker goroutines and Publish never blocks on a
// handler; handler errors are logged, not returned.
func (b *Bus) Publish(ctx context.Context, event shared.Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}
	handlers := make([]shared.EventHandler, len(b.handlers[event.EventType()]))
	copy(handlers, b.handlers[event.EventType()])
	b.mu.RUnlock()

	for _, handler := range handlers {
		if b.async {
			b.dispatchAsync(handler, event)
		} else {
			b.run(ctx, handler, event)
		}
	}
	return nil
}

func (b *Bus) dispatchAsync(handler shared.EventHandler, event shared.Event) {
	b.wg.Add(1)
	b.workers <- struct{}{}
	go func() {
		defer func() {
			<-b.workers
			b.wg.Done()
		}()
		// Handlers run detached from the publishing request's context:
		// progress and ledger updates must finish even if the HTTP request
		// that triggered them has completed.
		b.run(context.Background(), handler, event)
	}()
}

func (b *Bus) run(ctx context.Context, handler shared.EventHandler, event shared.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event handler panicked",
				logger.String("event_type", string(event.EventType())),
				logger.Any("panic", r))
		}
	}()

	if err := handler(ctx, event); err != nil {
		b.log.Warn("event handler failed",
			logger.String("event_type", string(event.EventType())),
			logger.Err(err))
	}
}

// Close stops the bus and waits for in-flight async handlers.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	b.wg.Wait()
	return nil
}
