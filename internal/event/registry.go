package event

import (
	"sync"

	"github.com/padbind/padbind/internal/event/topic"
)

// Registry manages subscriptions keyed by their stable handle ID.
// It is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	byID map[string]*Subscription
}

// NewRegistry creates an empty subscription registry.
func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[string]*Subscription),
	}
}

// Add registers a subscription.
func (r *Registry) Add(sub *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[sub.ID()] = sub
}

// Remove removes a subscription by ID. Returns false if it was not present.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	return true
}

// Match returns every active subscription interested in the given kind.
func (r *Registry) Match(t topic.Topic) []*Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Subscription
	for _, sub := range r.byID {
		if sub.IsActive() && sub.wants(t) {
			out = append(out, sub)
		}
	}
	return out
}

// All returns a snapshot of every subscription, active or not.
func (r *Registry) All() []*Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Subscription, 0, len(r.byID))
	for _, sub := range r.byID {
		out = append(out, sub)
	}
	return out
}

// CountActive returns the number of active subscriptions.
func (r *Registry) CountActive() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, sub := range r.byID {
		if sub.IsActive() {
			n++
		}
	}
	return n
}
