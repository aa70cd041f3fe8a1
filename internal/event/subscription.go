package event

import (
	"sync/atomic"

	"github.com/padbind/padbind/internal/event/topic"
)

// SubscriptionState represents the lifecycle state of a subscription.
type SubscriptionState int32

const (
	// SubscriptionStateActive means the subscription is receiving events.
	SubscriptionStateActive SubscriptionState = iota

	// SubscriptionStateCancelled means the subscription has been permanently
	// cancelled, either by Unsubscribe or by bus shutdown.
	SubscriptionStateCancelled
)

// String returns a human-readable state name.
func (s SubscriptionState) String() string {
	switch s {
	case SubscriptionStateActive:
		return "active"
	case SubscriptionStateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Subscription is the stable handle identifying one subscriber registration.
// It carries the subscriber's interest set and owns the serial delivery queue
// that preserves publish order for a single producer.
type Subscription struct {
	id         string
	subscriber Subscriber
	topics     []topic.Topic
	all        bool

	queue chan delivery
	done  chan struct{}
	state atomic.Int32
}

// delivery is one queued event for one subscription.
type delivery struct {
	topic   topic.Topic
	payload any
}

func newSubscription(id string, sub Subscriber, all bool, topics []topic.Topic, queueSize int) *Subscription {
	s := &Subscription{
		id:         id,
		subscriber: sub,
		topics:     topics,
		all:        all,
		queue:      make(chan delivery, queueSize),
		done:       make(chan struct{}),
	}
	s.state.Store(int32(SubscriptionStateActive))
	return s
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string {
	return s.id
}

// Topics returns the subscribed event kinds. Nil for subscribe-all.
func (s *Subscription) Topics() []topic.Topic {
	if s.all {
		return nil
	}
	out := make([]topic.Topic, len(s.topics))
	copy(out, s.topics)
	return out
}

// State returns the current subscription state.
func (s *Subscription) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

// IsActive returns true if the subscription can receive events.
func (s *Subscription) IsActive() bool {
	return s.State() == SubscriptionStateActive
}

// cancel marks the subscription cancelled. Idempotent; returns true on the
// first transition.
func (s *Subscription) cancel() bool {
	return s.state.CompareAndSwap(int32(SubscriptionStateActive), int32(SubscriptionStateCancelled))
}

// wants reports whether this subscription is interested in the given kind.
// An empty interest set means shutdown-notification only.
func (s *Subscription) wants(t topic.Topic) bool {
	if s.all {
		return true
	}
	for _, want := range s.topics {
		if t.Matches(want) {
			return true
		}
	}
	return false
}
