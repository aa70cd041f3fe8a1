// Package input turns the stream of typed gamepad symbols into combination
// events. The accumulator is the only holder of partial-input state.
package input

import (
	"context"
	"sync"

	"github.com/padbind/padbind/internal/event/topic"
	"github.com/padbind/padbind/internal/input/symbol"
	"github.com/padbind/padbind/internal/log"
)

// Publisher is the slice of the event bus the accumulator needs.
type Publisher interface {
	Publish(t topic.Topic, payload any)
}

// Accumulator collects typed symbols into a candidate sequence. START
// dispatches the candidate, BACK_SELECT on a non-empty candidate opens it
// for editing, anything else extends the candidate and refreshes the
// preview. The candidate never grows past the storable maximum.
type Accumulator struct {
	mu        sync.Mutex
	candidate symbol.Sequence

	bus    Publisher
	logger *log.Logger
}

// NewAccumulator creates an accumulator publishing on bus.
func NewAccumulator(bus Publisher, logger *log.Logger) *Accumulator {
	if logger == nil {
		logger = log.Discard()
	}
	return &Accumulator{
		bus:    bus,
		logger: logger.WithField("component", "input"),
	}
}

// Candidate returns a copy of the current partial sequence.
func (a *Accumulator) Candidate() symbol.Sequence {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.candidate.Clone()
}

// Reset clears the partial sequence.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.candidate = nil
}

// OnEvent consumes one typed symbol. Deliveries arrive serialized, so the
// candidate evolves in typing order.
func (a *Accumulator) OnEvent(_ context.Context, t topic.Topic, payload any) error {
	if t != topic.SymbolTyped {
		return nil
	}
	sym, ok := payload.(symbol.Symbol)
	if !ok {
		a.logger.Warnf("typed event with %T payload", payload)
		return nil
	}
	a.consume(sym)
	return nil
}

// OnShutdown is a no-op.
func (a *Accumulator) OnShutdown() {}

func (a *Accumulator) consume(sym symbol.Symbol) {
	if !sym.IsValid() {
		a.logger.Debugf("ignoring symbol %d", int(sym))
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case sym == symbol.Start:
		seq := a.candidate
		a.candidate = nil
		a.publish(topic.Run, seq)

	case sym == symbol.BackSelect && !a.candidate.IsEmpty():
		seq := a.candidate
		a.candidate = nil
		a.publish(topic.Edit, seq)

	case a.candidate.Len() >= symbol.MaxSequenceLen:
		// Full candidate; re-show the preview, drop the symbol.
		a.publish(topic.ShowPreview, a.candidate.Clone())

	default:
		a.candidate = a.candidate.Append(sym)
		a.publish(topic.ShowPreview, a.candidate.Clone())
	}
}

func (a *Accumulator) publish(t topic.Topic, payload symbol.Sequence) {
	if a.bus == nil {
		return
	}
	a.bus.Publish(t, payload)
}
