package input

import (
	"context"
	"testing"

	"github.com/padbind/padbind/internal/event/topic"
	"github.com/padbind/padbind/internal/input/symbol"
	"github.com/padbind/padbind/internal/log"
)

type capturedEvent struct {
	topic   topic.Topic
	payload symbol.Sequence
}

type stubPublisher struct {
	events []capturedEvent
}

func (p *stubPublisher) Publish(t topic.Topic, payload any) {
	seq, _ := payload.(symbol.Sequence)
	p.events = append(p.events, capturedEvent{t, seq})
}

func feed(t *testing.T, a *Accumulator, syms ...symbol.Symbol) {
	t.Helper()
	for _, s := range syms {
		if err := a.OnEvent(context.Background(), topic.SymbolTyped, s); err != nil {
			t.Fatalf("OnEvent(%v): %v", s, err)
		}
	}
}

func newTestAccumulator() (*Accumulator, *stubPublisher) {
	bus := &stubPublisher{}
	return NewAccumulator(bus, log.Discard()), bus
}

func TestTypingExtendsCandidateAndPreviews(t *testing.T) {
	a, bus := newTestAccumulator()

	feed(t, a, symbol.A, symbol.Y)

	if len(bus.events) != 2 {
		t.Fatalf("events = %v", bus.events)
	}
	for _, e := range bus.events {
		if e.topic != topic.ShowPreview {
			t.Errorf("topic = %s, want %s", e.topic, topic.ShowPreview)
		}
	}
	if !bus.events[1].payload.Equal(symbol.Sequence{symbol.A, symbol.Y}) {
		t.Errorf("candidate = %v", bus.events[1].payload)
	}
}

func TestStartDispatchesAndResets(t *testing.T) {
	a, bus := newTestAccumulator()

	feed(t, a, symbol.A, symbol.Y, symbol.Start)

	last := bus.events[len(bus.events)-1]
	if last.topic != topic.Run {
		t.Fatalf("topic = %s, want %s", last.topic, topic.Run)
	}
	if !last.payload.Equal(symbol.Sequence{symbol.A, symbol.Y}) {
		t.Errorf("dispatched = %v", last.payload)
	}
	if !a.Candidate().IsEmpty() {
		t.Error("candidate not reset after dispatch")
	}
}

func TestStartWithEmptyCandidateStillDispatches(t *testing.T) {
	a, bus := newTestAccumulator()

	feed(t, a, symbol.Start)

	if len(bus.events) != 1 || bus.events[0].topic != topic.Run {
		t.Fatalf("events = %v", bus.events)
	}
	if !bus.events[0].payload.IsEmpty() {
		t.Errorf("payload = %v, want empty", bus.events[0].payload)
	}
}

func TestBackSelectOpensEditor(t *testing.T) {
	a, bus := newTestAccumulator()

	feed(t, a, symbol.A, symbol.BackSelect)

	last := bus.events[len(bus.events)-1]
	if last.topic != topic.Edit {
		t.Fatalf("topic = %s, want %s", last.topic, topic.Edit)
	}
	if !last.payload.Equal(symbol.Sequence{symbol.A}) {
		t.Errorf("payload = %v", last.payload)
	}
	if !a.Candidate().IsEmpty() {
		t.Error("candidate not reset after edit")
	}
}

func TestBackSelectOnEmptyCandidateAccumulates(t *testing.T) {
	a, bus := newTestAccumulator()

	feed(t, a, symbol.BackSelect)

	if len(bus.events) != 1 || bus.events[0].topic != topic.ShowPreview {
		t.Fatalf("events = %v", bus.events)
	}
	if !a.Candidate().Equal(symbol.Sequence{symbol.BackSelect}) {
		t.Errorf("candidate = %v", a.Candidate())
	}
}

func TestNoneIsIgnored(t *testing.T) {
	a, bus := newTestAccumulator()

	feed(t, a, symbol.None)

	if len(bus.events) != 0 {
		t.Errorf("events = %v, want none", bus.events)
	}
	if !a.Candidate().IsEmpty() {
		t.Error("candidate grew on NONE")
	}
}

func TestCandidateCapsAtMaxLength(t *testing.T) {
	a, bus := newTestAccumulator()

	for i := 0; i < symbol.MaxSequenceLen+3; i++ {
		feed(t, a, symbol.A)
	}

	if got := a.Candidate().Len(); got != symbol.MaxSequenceLen {
		t.Errorf("candidate length = %d, want %d", got, symbol.MaxSequenceLen)
	}
	// Every typed symbol still refreshes the preview.
	if len(bus.events) != symbol.MaxSequenceLen+3 {
		t.Errorf("events = %d", len(bus.events))
	}
}

func TestWrongPayloadIgnored(t *testing.T) {
	a, bus := newTestAccumulator()

	if err := a.OnEvent(context.Background(), topic.SymbolTyped, "A"); err != nil {
		t.Fatalf("OnEvent: %v", err)
	}
	if len(bus.events) != 0 {
		t.Errorf("events = %v", bus.events)
	}
}

func TestResetClearsCandidate(t *testing.T) {
	a, _ := newTestAccumulator()

	feed(t, a, symbol.A, symbol.B)
	a.Reset()
	if !a.Candidate().IsEmpty() {
		t.Error("Reset left a candidate behind")
	}
}
