package combo

import (
	"context"
	"errors"
	"fmt"

	"github.com/padbind/padbind/internal/event/topic"
	"github.com/padbind/padbind/internal/input/symbol"
	"github.com/padbind/padbind/internal/log"
	"github.com/padbind/padbind/internal/preview"
	"github.com/padbind/padbind/internal/script"
)

// NotFoundMessage is shown when a dispatched sequence has no combination.
const NotFoundMessage = "Not found"

// ReloadingMessage is shown when the store re-scans its directory.
const ReloadingMessage = "Reloading"

// Publisher is the slice of the event bus the handler needs.
type Publisher interface {
	Publish(t topic.Topic, payload any)
}

// Previewer is the slice of the preview coordinator the handler needs.
type Previewer interface {
	Show(d preview.Data)
}

// Handler reacts to combination events: dispatching run scripts, opening
// definitions for editing, reloading the store, and composing previews.
// It is the only component that executes run scripts.
type Handler struct {
	store     *Store
	runner    script.Runner
	previewer Previewer
	bus       Publisher
	logger    *log.Logger
}

// NewHandler wires a handler over the store.
func NewHandler(store *Store, runner script.Runner, previewer Previewer, bus Publisher, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Discard()
	}
	return &Handler{
		store:     store,
		runner:    runner,
		previewer: previewer,
		bus:       bus,
		logger:    logger.WithField("component", "combo"),
	}
}

// Topics returns the event kinds the handler subscribes to.
func (h *Handler) Topics() []topic.Topic {
	return []topic.Topic{topic.Run, topic.Edit, topic.Reload, topic.ShowPreview}
}

// OnEvent dispatches by kind. Payloads of the wrong type are logged and
// dropped, never escalated.
func (h *Handler) OnEvent(_ context.Context, t topic.Topic, payload any) error {
	switch t {
	case topic.Run:
		seq, ok := payload.(symbol.Sequence)
		if !ok {
			h.logger.Warnf("run event with %T payload", payload)
			return nil
		}
		h.run(seq)
	case topic.Edit:
		seq, ok := payload.(symbol.Sequence)
		if !ok {
			h.logger.Warnf("edit event with %T payload", payload)
			return nil
		}
		h.edit(seq)
	case topic.Reload:
		dir, ok := payload.(string)
		if !ok {
			h.logger.Warnf("reload event with %T payload", payload)
			return nil
		}
		h.reload(dir)
	case topic.ShowPreview:
		seq, ok := payload.(symbol.Sequence)
		if !ok {
			h.logger.Warnf("preview event with %T payload", payload)
			return nil
		}
		h.preview(seq)
	}
	return nil
}

// OnShutdown is a no-op; the handler holds no resources of its own.
func (h *Handler) OnShutdown() {}

// run executes the run script for the precise match of seq. The script's
// string result, or its failure, is surfaced as a message.
func (h *Handler) run(seq symbol.Sequence) {
	c := h.store.FindExact(seq)
	if !c.IsValid() {
		h.showMessage(NotFoundMessage)
		return
	}

	h.logger.Debugf("running %s (%s)", c.Name(), seq.Stem())
	result, err := h.runner.Run(c.RunScript())
	if err != nil {
		var serr *script.Error
		if errors.As(err, &serr) {
			h.showMessage(serr.Summary())
		} else {
			h.showMessage(fmt.Sprintf("Error: %v", err))
		}
		h.logger.Errorf("run script for %s failed: %v", seq.Stem(), err)
		return
	}
	if result != "" {
		h.showMessage(result)
	}
}

// edit opens the definition file behind seq, creating it first if needed.
func (h *Handler) edit(seq symbol.Sequence) {
	err := h.store.Edit(seq)
	switch {
	case err == nil:
	case errors.Is(err, ErrBuiltinCombination):
		h.showMessage("Builtin combinations can not be edited")
	default:
		h.logger.Errorf("edit %s: %v", seq.Stem(), err)
		h.showMessage(fmt.Sprintf("Error: %v", err))
	}
}

// reload re-scans the combination directory. An empty dir keeps the current
// one.
func (h *Handler) reload(dir string) {
	h.showMessage(ReloadingMessage)
	if err := h.store.Reload(dir); err != nil {
		h.logger.Errorf("reload: %v", err)
		h.showMessage(fmt.Sprintf("Error: %v", err))
		return
	}
	h.logger.Infof("reloaded %d combinations from %s", h.store.Count(), h.store.Dir())
}

// preview composes the display data for a partial sequence and hands it to
// the coordinator. Composition happens here so the coordinator and presenter
// stay free of matching logic.
func (h *Handler) preview(seq symbol.Sequence) {
	d := preview.Data{Sequence: seq.String()}

	if exact := h.store.FindExact(seq); exact.IsValid() {
		d.Match = exact.Name()
	}
	for _, c := range h.store.FindPrefixMatches(seq, PreviewLimit) {
		d.Possibilities = append(d.Possibilities, fmt.Sprintf("%s = %s", c.MissingPart(seq), c.Name()))
	}

	if h.previewer != nil {
		h.previewer.Show(d)
	}
}

func (h *Handler) showMessage(text string) {
	if h.bus == nil {
		return
	}
	h.bus.Publish(topic.ShowMessage, text)
}
