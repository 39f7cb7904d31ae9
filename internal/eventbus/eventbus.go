package eventbus

import (
	"runtime/debug"
	"sync"

	"zask/internal/domain"
	"zask/internal/logging"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventError             = domain.EventError
	EventTeamLoadRequested = domain.EventTeamLoadRequested
	EventTeamLoaded        = domain.EventTeamLoaded
	EventTeamSaveRequested = domain.EventTeamSaveRequested
	EventTeamSaved         = domain.EventTeamSaved
	EventSessionResolved   = domain.EventSessionResolved
	EventPlayerSelected    = domain.EventPlayerSelected
	EventSearchFailed      = domain.EventSearchFailed
	EventConfigSaved       = domain.EventConfigSaved
)

// Re-export domain event types
type ErrorEvent = domain.ErrorEvent
type TeamLoadRequestedEvent = domain.TeamLoadRequestedEvent
type TeamLoadedEvent = domain.TeamLoadedEvent
type TeamSaveRequestedEvent = domain.TeamSaveRequestedEvent
type TeamSavedEvent = domain.TeamSavedEvent
type SessionResolvedEvent = domain.SessionResolvedEvent
type PlayerSelectedEvent = domain.PlayerSelectedEvent
type SearchFailedEvent = domain.SearchFailedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	inflight  sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
}

// New creates a new event bus
func New() EventBus {
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 256),
		quit:      make(chan struct{}),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	logger := logging.L()
	logger.Debug().Str(logging.FieldEvent, string(event.Type())).Msg("publishing event")

	select {
	case b.eventChan <- event:
	default:
		logger.Warn().Str(logging.FieldEvent, string(event.Type())).Msg("event bus channel full, dropping event")
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher, discards queued events and waits for running
// handlers to return. It must not be called from a handler.
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
	})
	b.wg.Wait()
	b.inflight.Wait()
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			subs := make([]subscription, len(b.handlers[event.Type()]))
			copy(subs, b.handlers[event.Type()])
			b.mu.RUnlock()

			for _, s := range subs {
				// Handlers run on their own goroutine so a slow one cannot stall the bus
				b.inflight.Add(1)
				go func(h EventHandler, eventType EventType) {
					defer b.inflight.Done()
					defer func() {
						if r := recover(); r != nil {
							logger := logging.L()
							logger.Error().
								Str(logging.FieldEvent, string(eventType)).
								Interface("panic", r).
								Bytes("stack", debug.Stack()).
								Msg("event handler panic")
						}
					}()
					h(event)
				}(s.handler, event.Type())
			}

		case <-b.quit:
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}
