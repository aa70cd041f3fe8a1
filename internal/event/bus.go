// Package event implements the asynchronous publish/subscribe bus that
// decouples input production, sequence accumulation, combination lookup, and
// action dispatch.
package event

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/padbind/padbind/internal/event/topic"
	"github.com/padbind/padbind/internal/log"
)

// DefaultQueueSize bounds each subscription's delivery queue. A publish that
// finds a subscriber's queue full drops the delivery for that subscriber
// instead of blocking the producer.
const DefaultQueueSize = 256

// Bus is the central event bus.
//
// Every subscription owns a bounded FIFO queue drained by a dedicated worker
// goroutine, so a single producer's publishes reach each subscriber in publish
// order, and one slow subscriber never delays another's deliveries. Publish
// returns immediately to the caller.
type Bus struct {
	registry  *Registry
	logger    *log.Logger
	queueSize int

	closed       atomic.Bool
	shutdownOnce sync.Once
	wg           sync.WaitGroup

	published     atomic.Uint64
	delivered     atomic.Uint64
	dropped       atomic.Uint64
	handlerErrors atomic.Uint64
	handlerPanics atomic.Uint64
}

// Option configures a Bus.
type Option func(*Bus)

// WithQueueSize sets the per-subscription queue size.
func WithQueueSize(size int) Option {
	return func(b *Bus) {
		if size > 0 {
			b.queueSize = size
		}
	}
}

// WithLogger sets the bus logger.
func WithLogger(l *log.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBus creates a new event bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		registry:  NewRegistry(),
		logger:    log.New(log.DefaultConfig()).WithField("component", "bus"),
		queueSize: DefaultQueueSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers interest in an explicit set of event kinds.
// An empty set means the subscriber receives no events but is still notified
// on shutdown. The returned Subscription is the handle for Unsubscribe.
func (b *Bus) Subscribe(sub Subscriber, kinds ...topic.Topic) (*Subscription, error) {
	return b.subscribe(sub, false, kinds)
}

// SubscribeAll registers interest in every event kind.
func (b *Bus) SubscribeAll(sub Subscriber) (*Subscription, error) {
	return b.subscribe(sub, true, nil)
}

func (b *Bus) subscribe(sub Subscriber, all bool, kinds []topic.Topic) (*Subscription, error) {
	if sub == nil {
		return nil, ErrNilSubscriber
	}
	if b.closed.Load() {
		return nil, ErrBusClosed
	}
	for _, k := range kinds {
		if !k.IsValid() {
			return nil, ErrInvalidTopic
		}
	}

	s := newSubscription(uuid.NewString(), sub, all, kinds, b.queueSize)
	b.registry.Add(s)

	b.wg.Add(1)
	go b.deliver(s)

	b.logger.Debugf("subscribed id=%s all=%v kinds=%v", s.ID(), all, kinds)
	return s, nil
}

// Unsubscribe removes all interest for the given handle. An unsubscribed
// subscriber is not notified on shutdown.
func (b *Bus) Unsubscribe(s *Subscription) error {
	if s == nil {
		return ErrSubscriptionNotFound
	}
	if !b.registry.Remove(s.ID()) {
		return ErrSubscriptionNotFound
	}
	if s.cancel() {
		close(s.done)
	}
	b.logger.Debugf("unsubscribed id=%s", s.ID())
	return nil
}

// Publish dispatches an event asynchronously to every interested subscriber.
// The call returns immediately. After ShutdownAll, Publish is a no-op.
func (b *Bus) Publish(t topic.Topic, payload any) {
	if b.closed.Load() {
		b.logger.Debugf("publish after shutdown dropped: %s", t)
		return
	}
	if !t.IsValid() {
		b.logger.Warnf("publish with unknown topic %q dropped", t)
		return
	}

	b.published.Add(1)
	b.logger.Debugf("publish %s", t)

	for _, sub := range b.registry.Match(t) {
		select {
		case sub.queue <- delivery{topic: t, payload: payload}:
		default:
			b.dropped.Add(1)
			b.logger.Warnf("queue full, dropping %s for subscription %s", t, sub.ID())
		}
	}
}

// ShutdownAll is a one-time irreversible operation. It stops accepting
// publishes, then synchronously notifies every current subscriber via its
// shutdown hook, in unspecified order, and finally waits for delivery
// workers to wind down.
func (b *Bus) ShutdownAll() {
	b.shutdownOnce.Do(func() {
		b.closed.Store(true)
		b.logger.Infof("shutting down")

		for _, sub := range b.registry.All() {
			if !sub.cancel() {
				continue
			}
			close(sub.done)
			b.notifyShutdown(sub)
		}

		b.wg.Wait()
	})
}

// IsShutdown returns true once ShutdownAll has run.
func (b *Bus) IsShutdown() bool {
	return b.closed.Load()
}

// Stats returns current bus counters.
func (b *Bus) Stats() Stats {
	return Stats{
		Published:         b.published.Load(),
		Delivered:         b.delivered.Load(),
		Dropped:           b.dropped.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: b.registry.CountActive(),
	}
}

// deliver drains one subscription's queue until the subscription is cancelled.
func (b *Bus) deliver(s *Subscription) {
	defer b.wg.Done()

	for {
		select {
		case <-s.done:
			return
		case d := <-s.queue:
			b.invoke(s, d)
		}
	}
}

// invoke runs one handler with panic isolation. No handler failure may
// propagate out of the dispatch boundary.
func (b *Bus) invoke(s *Subscription, d delivery) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			b.logger.Errorf("handler panic on %s in subscription %s: %v\n%s",
				d.topic, s.ID(), r, debug.Stack())
		}
	}()

	if err := s.subscriber.OnEvent(context.Background(), d.topic, d.payload); err != nil {
		b.handlerErrors.Add(1)
		b.logger.Errorf("handler error on %s in subscription %s: %v", d.topic, s.ID(), err)
		return
	}
	b.delivered.Add(1)
}

// notifyShutdown calls one subscriber's shutdown hook with panic isolation.
func (b *Bus) notifyShutdown(s *Subscription) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Errorf("shutdown hook panic in subscription %s: %v", s.ID(), r)
		}
	}()
	s.subscriber.OnShutdown()
}
