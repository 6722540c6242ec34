package events

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var _ Bus = (*EventBus)(nil)

type funcHandler struct {
	id string
	fn EventHandler
}

// EventBus delivers game events synchronously, on the publishing goroutine.
// Subscribers receive events in id order, then function handlers in the order
// they were added.
type EventBus struct {
	mu          sync.RWMutex
	subscribers []Subscriber
	handlers    map[string][]funcHandler
	nextHandler int
	logger      zerolog.Logger
}

// NewEventBus creates a bus logging through the global logger
func NewEventBus() *EventBus {
	return NewEventBusWithLogger(log.Logger)
}

// NewEventBusWithLogger creates a bus that logs through logger
func NewEventBusWithLogger(logger zerolog.Logger) *EventBus {
	return &EventBus{
		handlers: make(map[string][]funcHandler),
		logger:   logger.With().Str("component", "event_bus").Logger(),
	}
}

func bySubscriberID(s Subscriber, id string) int { return strings.Compare(s.ID(), id) }

// Subscribe registers s. A subscriber with the same id is replaced.
func (eb *EventBus) Subscribe(s Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	i, found := slices.BinarySearchFunc(eb.subscribers, s.ID(), bySubscriberID)
	if found {
		eb.subscribers[i] = s
	} else {
		eb.subscribers = slices.Insert(eb.subscribers, i, s)
	}
	eb.logger.Debug().Str("subscriber_id", s.ID()).Bool("replaced", found).Msg("Subscriber added")
}

// Unsubscribe drops the subscriber with the given id
func (eb *EventBus) Unsubscribe(subscriberID string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if i, found := slices.BinarySearchFunc(eb.subscribers, subscriberID, bySubscriberID); found {
		eb.subscribers = slices.Delete(eb.subscribers, i, i+1)
		eb.logger.Debug().Str("subscriber_id", subscriberID).Msg("Subscriber removed")
	}
}

// SubscribeFunc registers handler for one event type and returns its id
func (eb *EventBus) SubscribeFunc(eventType string, handler EventHandler) string {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.nextHandler++
	id := fmt.Sprintf("%s#%d", eventType, eb.nextHandler)
	eb.handlers[eventType] = append(eb.handlers[eventType], funcHandler{id: id, fn: handler})
	eb.logger.Debug().Str("event_type", eventType).Str("handler_id", id).Msg("Handler added")
	return id
}

// UnsubscribeFunc drops a handler registered by SubscribeFunc. It reports
// whether the id was known.
func (eb *EventBus) UnsubscribeFunc(handlerID string) bool {
	eventType, _, ok := strings.Cut(handlerID, "#")
	if !ok {
		return false
	}

	eb.mu.Lock()
	defer eb.mu.Unlock()

	hs := eb.handlers[eventType]
	i := slices.IndexFunc(hs, func(h funcHandler) bool { return h.id == handlerID })
	if i < 0 {
		return false
	}
	eb.handlers[eventType] = slices.Delete(hs, i, i+1)
	return true
}

// Publish hands event to every interested subscriber and handler. The bus
// lock is not held during delivery, so receivers may subscribe or publish.
func (eb *EventBus) Publish(event Event) {
	eventType := event.Type()

	eb.mu.RLock()
	subs := slices.Clone(eb.subscribers)
	hs := slices.Clone(eb.handlers[eventType])
	eb.mu.RUnlock()

	eb.logger.Debug().
		Str("event_type", eventType).
		Str("game_id", event.GameID()).
		Int("turn", event.Meta().Turn).
		Msg("Publishing event")

	for _, s := range subs {
		if s.InterestedIn(eventType) {
			eb.deliver(s.ID(), event, s.HandleEvent)
		}
	}
	for _, h := range hs {
		eb.deliver(h.id, event, h.fn)
	}
}

// deliver runs one receiver. A panicking receiver is logged and skipped.
func (eb *EventBus) deliver(receiver string, event Event, fn EventHandler) {
	defer func() {
		if r := recover(); r != nil {
			eb.logger.Error().
				Str("receiver", receiver).
				Str("event_type", event.Type()).
				Interface("panic", r).
				Msg("Event receiver panicked")
		}
	}()
	fn(event)
}

// GetSubscriberCount returns the number of subscribers
func (eb *EventBus) GetSubscriberCount() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subscribers)
}

// GetFuncHandlerCount returns the number of handlers for one event type
func (eb *EventBus) GetFuncHandlerCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.handlers[eventType])
}
