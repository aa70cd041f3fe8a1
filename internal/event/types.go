package event

import (
	"context"

	"github.com/padbind/padbind/internal/event/topic"
)

// Subscriber receives events from the bus.
//
// OnEvent is invoked on the subscriber's delivery worker, never on the
// publisher's goroutine. A subscriber registered for a kind may still receive
// a payload of an unexpected type for that kind; it must treat that as a
// local error (log and ignore), never panic the bus.
type Subscriber interface {
	// OnEvent processes one event.
	OnEvent(ctx context.Context, t topic.Topic, payload any) error

	// OnShutdown is called exactly once when the bus shuts down,
	// unless the subscriber unsubscribed first.
	OnShutdown()
}

// Func adapts a plain function to a Subscriber with a no-op shutdown hook.
type Func func(ctx context.Context, t topic.Topic, payload any) error

// OnEvent implements Subscriber.
func (f Func) OnEvent(ctx context.Context, t topic.Topic, payload any) error {
	return f(ctx, t, payload)
}

// OnShutdown implements Subscriber.
func (f Func) OnShutdown() {}

// Stats contains bus counters.
type Stats struct {
	// Published is the total number of events accepted by Publish.
	Published uint64

	// Delivered is the number of successful handler executions.
	Delivered uint64

	// Dropped is the number of deliveries discarded because a
	// subscription queue was full.
	Dropped uint64

	// HandlerErrors is the number of handlers that returned an error.
	HandlerErrors uint64

	// HandlerPanics is the number of handlers that panicked.
	HandlerPanics uint64

	// ActiveSubscribers is the current number of live subscriptions.
	ActiveSubscribers int
}
