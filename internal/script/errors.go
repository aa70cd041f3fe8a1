package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Error is a structured script failure carrying a human-readable message and
// the source line it was reported at (0 when unknown).
type Error struct {
	Message string
	Line    int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d)", e.Message, e.Line)
	}
	return e.Message
}

// Summary returns the user-facing rendering used in message events.
func (e *Error) Summary() string {
	return "Error: " + e.Message + " (Line " + strconv.Itoa(e.Line) + ")"
}

var (
	// Runtime errors: "<run>:3: attempt to call a nil value"
	runtimeLine = regexp.MustCompile(`:(\d+):`)
	// Compile errors: "<run> line:2(column 10) near ..."
	compileLine = regexp.MustCompile(`line:(\d+)`)
)

// newError converts a Lua error into a structured Error, extracting the
// reported line number and stripping the chunk-name prefix.
func newError(err error) *Error {
	msg := err.Error()
	line := 0

	if m := compileLine.FindStringSubmatch(msg); m != nil {
		line, _ = strconv.Atoi(m[1])
	} else if m := runtimeLine.FindStringSubmatch(msg); m != nil {
		line, _ = strconv.Atoi(m[1])
	}

	// Trim a leading "<chunk>:N: " so users see the message itself.
	if idx := strings.Index(msg, ": "); idx > 0 && strings.HasPrefix(msg, "<") {
		if rest := msg[idx+2:]; rest != "" {
			msg = rest
		}
	}
	msg = strings.TrimSpace(strings.Split(msg, "\nstack traceback")[0])

	return &Error{Message: msg, Line: line}
}
