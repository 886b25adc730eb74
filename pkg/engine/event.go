package engine

import (
	"context"
	"sync"
	"time"

	"github.com/germanamz/calcmcp/pkg/tools/envelope"
	"github.com/germanamz/calcmcp/pkg/tools/schema"
	"github.com/germanamz/calcmcp/pkg/tools/toolbox"
)

// EventKind identifies the type of engine event.
type EventKind string

const (
	EventToolCallStart EventKind = "tool_call_start"
	EventToolCallEnd   EventKind = "tool_call_end"
)

// Event is an immutable notification of engine activity.
type Event struct {
	Kind      EventKind
	Tool      string
	Timestamp time.Time
	Data      any
}

// ToolCallResult is the Data of an EventToolCallEnd event. Err is set only
// for internal faults; a tool-level Failure has IsError set and a nil Err.
type ToolCallResult struct {
	IsError  bool
	Err      error
	Duration time.Duration
}

// Subscription receives events from an EventBus.
type Subscription struct {
	C  <-chan Event
	ch chan Event
}

// EventBus fans out events to all active subscribers. It is safe for
// concurrent use.
type EventBus struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// NewEventBus creates an EventBus ready for use.
func NewEventBus() *EventBus {
	return &EventBus{
		subs: make(map[*Subscription]struct{}),
	}
}

// Subscribe creates a new subscription with the given channel buffer size.
// The caller should read from sub.C and eventually call Unsubscribe.
func (b *EventBus) Subscribe(bufSize int) *Subscription {
	ch := make(chan Event, bufSize)
	sub := &Subscription{C: ch, ch: ch}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

// Unsubscribe removes the subscription and closes its channel.
func (b *EventBus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		close(sub.ch)
	}
}

// Publish sends an event to all subscribers. A subscriber whose buffer is
// full misses the event; tool calls never wait on a slow consumer.
func (b *EventBus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs {
		select {
		case sub.ch <- e:
		default:
		}
	}
}

// publishEvents returns a middleware that brackets every tool call with
// start and end events on bus.
func publishEvents(bus *EventBus) toolbox.Middleware {
	return func(name string, next toolbox.Handler) toolbox.Handler {
		return func(ctx context.Context, args schema.Args) (envelope.Outcome, error) {
			start := time.Now()
			bus.Publish(Event{Kind: EventToolCallStart, Tool: name, Timestamp: start})

			out, err := next(ctx, args)

			bus.Publish(Event{
				Kind:      EventToolCallEnd,
				Tool:      name,
				Timestamp: time.Now(),
				Data: ToolCallResult{
					IsError:  err != nil || out.Failed(),
					Err:      err,
					Duration: time.Since(start),
				},
			})

			return out, err
		}
	}
}
