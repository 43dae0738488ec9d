package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Type identifies a kind of event on the bus.
type Type string

const (
	ChangeDetected Type = "change:detected"
	ChangeAccepted Type = "change:accepted"
	ChangeReverted Type = "change:reverted"
	WatchStarted   Type = "watch:started"
	WatchStopped   Type = "watch:stopped"
)

// Event is one occurrence published to subscribers.
type Event struct {
	Type      Type        `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// Handler consumes events. Each delivery runs on its own goroutine, so
// handlers must not assume ordering relative to other handlers.
type Handler func(event Event)

// Bus connects the tracker to its consumers (TUI, logging, tests) without
// either side holding a reference to the other.
type Bus struct {
	handlers map[Type][]Handler
	all      []Handler
	mutex    sync.RWMutex
	closed   bool
	logger   zerolog.Logger
}

// NewBus creates an event bus. Handler panics are logged through logger
// instead of crashing the process.
func NewBus(logger zerolog.Logger) *Bus {
	return &Bus{
		handlers: make(map[Type][]Handler),
		logger:   logger,
	}
}

// Subscribe adds a handler for a specific event type.
func (b *Bus) Subscribe(t Type, handler Handler) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.handlers[t] = append(b.handlers[t], handler)
}

// SubscribeAll adds a handler that receives every event type.
func (b *Bus) SubscribeAll(handler Handler) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.all = append(b.all, handler)
}

// Emit publishes an event to all matching handlers. Handlers execute on
// their own goroutines so a slow consumer never blocks the caller.
func (b *Bus) Emit(t Type, data interface{}) {
	b.mutex.RLock()
	if b.closed {
		b.mutex.RUnlock()
		return
	}
	handlers := make([]Handler, 0, len(b.handlers[t])+len(b.all))
	handlers = append(handlers, b.handlers[t]...)
	handlers = append(handlers, b.all...)
	b.mutex.RUnlock()

	event := Event{
		Type:      t,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}

	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error().
						Str("event", string(t)).
						Interface("panic", r).
						Msg("event handler panic")
				}
			}()
			h(event)
		}(handler)
	}
}

// Close stops delivery; subsequent Emit calls are dropped.
func (b *Bus) Close() {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.closed = true
}

// EmitChangeDetected publishes the change notification for path. hasChanges
// is false when detection just cleared a pending change instead of
// creating or updating one.
func (b *Bus) EmitChangeDetected(path, filename string, hasChanges bool) {
	b.Emit(ChangeDetected, map[string]interface{}{
		"path":       path,
		"filename":   filename,
		"hasChanges": hasChanges,
	})
}

// EmitWatchStarted publishes the start of a watch on root.
func (b *Bus) EmitWatchStarted(root string) {
	b.Emit(WatchStarted, map[string]interface{}{"root": root})
}

// EmitWatchStopped publishes the end of a watch on root.
func (b *Bus) EmitWatchStopped(root string) {
	b.Emit(WatchStopped, map[string]interface{}{"root": root})
}

// EmitChangeAccepted publishes that path's pending change became the new
// baseline.
func (b *Bus) EmitChangeAccepted(path string) {
	b.Emit(ChangeAccepted, map[string]interface{}{"path": path})
}

// EmitChangeReverted publishes that path was restored to its baseline.
func (b *Bus) EmitChangeReverted(path string) {
	b.Emit(ChangeReverted, map[string]interface{}{"path": path})
}
