package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/padbind/padbind/internal/event/topic"
	"github.com/padbind/padbind/internal/input/symbol"
	"github.com/padbind/padbind/internal/log"
	"github.com/padbind/padbind/internal/preview"
)

// Publisher is the slice of the event bus the console needs.
type Publisher interface {
	Publish(t topic.Topic, payload any)
}

// Console is the terminal surface: it reads symbol names from its input,
// renders previews and messages on its output, and answers script prompts.
// One goroutine owns the input stream; a pending prompt intercepts exactly
// one line.
type Console struct {
	in     io.Reader
	outMu  sync.Mutex
	out    io.Writer
	bus    Publisher
	logger *log.Logger

	// onEOF runs once when the input stream ends.
	onEOF func()

	mu      sync.Mutex
	pending chan string

	wg sync.WaitGroup
}

// NewConsole creates a console over the given streams. Call Run to start
// reading input.
func NewConsole(in io.Reader, out io.Writer, bus Publisher, logger *log.Logger, onEOF func()) *Console {
	if logger == nil {
		logger = log.Discard()
	}
	return &Console{
		in:     in,
		out:    out,
		bus:    bus,
		logger: logger.WithField("component", "console"),
		onEOF:  onEOF,
	}
}

// Run reads input lines until EOF. Each line is either an answer to a
// pending prompt or a typed symbol, by name or ordinal.
func (c *Console) Run() {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			c.consume(strings.TrimSpace(scanner.Text()))
		}
		if err := scanner.Err(); err != nil {
			c.logger.Errorf("reading input: %v", err)
		}
		if c.onEOF != nil {
			c.onEOF()
		}
	}()
}

// Wait blocks until the input loop has finished.
func (c *Console) Wait() {
	c.wg.Wait()
}

func (c *Console) consume(line string) {
	if line == "" {
		return
	}

	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()
	if pending != nil {
		pending <- line
		return
	}

	sym, ok := parseSymbol(line)
	if !ok {
		c.printf("unknown symbol %q\n", line)
		return
	}
	c.bus.Publish(topic.SymbolTyped, sym)
}

// parseSymbol accepts a symbol name (case-insensitive) or its ordinal.
func parseSymbol(line string) (symbol.Symbol, bool) {
	if n, err := strconv.Atoi(line); err == nil {
		return symbol.FromOrdinal(n)
	}
	return symbol.FromName(strings.ToUpper(line))
}

// GetInput prints the prompt and returns the next input line. Cancelling
// the context abandons the prompt; the next line falls back to symbol
// handling.
func (c *Console) GetInput(ctx context.Context, prompt string) (string, error) {
	answer := make(chan string, 1)
	c.mu.Lock()
	c.pending = answer
	c.mu.Unlock()

	c.printf("%s ", prompt)

	select {
	case line := <-answer:
		return line, nil
	case <-ctx.Done():
		c.mu.Lock()
		if c.pending == answer {
			c.pending = nil
		}
		c.mu.Unlock()
		return "", ctx.Err()
	}
}

// ShowPreview renders the preview block.
func (c *Console) ShowPreview(d preview.Data) {
	var b strings.Builder
	fmt.Fprintf(&b, "-- %s", d.Sequence)
	if d.Match != "" {
		fmt.Fprintf(&b, " = %s", d.Match)
	}
	b.WriteByte('\n')
	for _, p := range d.Possibilities {
		fmt.Fprintf(&b, "   + %s\n", p)
	}
	c.printf("%s", b.String())
}

// ClosePreview ends the preview block.
func (c *Console) ClosePreview() {
	c.printf("--\n")
}

// OnEvent prints user-facing messages.
func (c *Console) OnEvent(_ context.Context, t topic.Topic, payload any) error {
	if t != topic.ShowMessage {
		return nil
	}
	text, ok := payload.(string)
	if !ok {
		c.logger.Warnf("message event with %T payload", payload)
		return nil
	}
	c.printf("%s\n", text)
	return nil
}

// OnShutdown is a no-op; the input loop ends with its reader.
func (c *Console) OnShutdown() {}

func (c *Console) printf(format string, args ...any) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}
