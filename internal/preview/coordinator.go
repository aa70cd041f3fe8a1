// Package preview schedules the on-screen hint for a partially entered
// sequence. Display is delayed so fast typists never see it, kept alive only
// while it is the latest request, and torn down on dispatch, edit, or after
// an absolute budget.
package preview

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/padbind/padbind/internal/event/topic"
	"github.com/padbind/padbind/internal/log"
)

// Default timings. Delay and poll mirror each other so a superseded preview
// disappears about as fast as it appeared.
const (
	DefaultDelay  = 100 * time.Millisecond
	DefaultPoll   = 100 * time.Millisecond
	DefaultBudget = 10 * time.Second
)

// Data is a fully rendered preview. The coordinator never inspects it; the
// producer decides what the presenter gets to show.
type Data struct {
	// Sequence is the rendered partial input, e.g. "BACK_SELECT[10]".
	Sequence string
	// Match is the display name of the precise match, "" when none exists.
	Match string
	// Possibilities lists longer combinations reachable from here, already
	// rendered as "missing part = name" lines.
	Possibilities []string
}

// Presenter is the display surface. ShowPreview and ClosePreview are called
// from the coordinator's own goroutines, one preview at a time.
type Presenter interface {
	ShowPreview(d Data)
	ClosePreview()
}

// Coordinator serializes preview lifetimes. Each Show supersedes the one
// before it; a superseded or cancelled preview closes itself within one poll
// interval. At most one preview is on screen at any moment.
type Coordinator struct {
	presenter Presenter
	logger    *log.Logger

	delay  time.Duration
	poll   time.Duration
	budget time.Duration

	// generation identifies the latest Show. Workers exit as soon as the
	// value moves past their own.
	generation atomic.Uint64
	wg         sync.WaitGroup
}

// Option adjusts coordinator timing.
type Option func(*Coordinator)

// WithTimings overrides the delay before display, the staleness poll
// interval, and the absolute display budget. Non-positive values keep the
// default.
func WithTimings(delay, poll, budget time.Duration) Option {
	return func(c *Coordinator) {
		if delay > 0 {
			c.delay = delay
		}
		if poll > 0 {
			c.poll = poll
		}
		if budget > 0 {
			c.budget = budget
		}
	}
}

// NewCoordinator creates a coordinator around the given presenter.
func NewCoordinator(presenter Presenter, logger *log.Logger, opts ...Option) *Coordinator {
	if logger == nil {
		logger = log.Discard()
	}
	c := &Coordinator{
		presenter: presenter,
		logger:    logger.WithField("component", "preview"),
		delay:     DefaultDelay,
		poll:      DefaultPoll,
		budget:    DefaultBudget,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Show schedules d for display after the delay, cancelling any preview that
// is pending or visible. The call returns immediately.
func (c *Coordinator) Show(d Data) {
	mine := c.generation.Add(1)
	c.wg.Add(1)
	go c.run(mine, d)
}

// Close cancels the pending or visible preview. A visible preview is taken
// off screen by its own worker within one poll interval.
func (c *Coordinator) Close() {
	c.generation.Add(1)
}

// run waits out the delay, displays if still current, then holds the preview
// until it is superseded or the budget runs out.
func (c *Coordinator) run(mine uint64, d Data) {
	defer c.wg.Done()

	time.Sleep(c.delay)
	if c.generation.Load() != mine {
		return
	}
	c.presenter.ShowPreview(d)

	deadline := time.Now().Add(c.budget)
	for c.generation.Load() == mine {
		if time.Now().After(deadline) {
			c.logger.Debugf("preview budget exhausted")
			break
		}
		time.Sleep(c.poll)
	}
	c.presenter.ClosePreview()
}

// OnEvent closes the active preview when a combination is dispatched or
// opened for editing. The coordinator subscribes to those kinds only.
func (c *Coordinator) OnEvent(_ context.Context, t topic.Topic, _ any) error {
	switch t {
	case topic.Run, topic.Edit:
		c.Close()
	}
	return nil
}

// OnShutdown cancels everything and waits for in-flight workers so the
// presenter is not called after the application stops.
func (c *Coordinator) OnShutdown() {
	c.generation.Add(1)
	c.wg.Wait()
}
