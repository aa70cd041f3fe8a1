// Package combo owns the persisted combination set: loading definitions from
// a directory, exact and prefix matching, uniqueness, and edit/delete flows.
package combo

import (
	"os"

	"github.com/padbind/padbind/internal/input/symbol"
	"github.com/padbind/padbind/internal/log"
	"github.com/padbind/padbind/internal/script"
)

// DefaultName is the display name until an init script sets one.
const DefaultName = "Unnamed combination"

// Combination maps a fixed symbol sequence to an init script (run once at
// load) and a run script (the action). A combination is either file-backed
// or builtin; builtins are never edited or deleted.
type Combination struct {
	seq        symbol.Sequence
	name       string
	initScript string
	runScript  string
	path       string // backing file; "" for builtins
	builtin    bool
	valid      bool
}

// NewBuiltin constructs an in-memory combination and immediately executes
// its init script. Builtins with an unstorable sequence are invalid.
func NewBuiltin(seq symbol.Sequence, initScript, runScript string, runner script.Runner, logger *log.Logger) *Combination {
	c := &Combination{
		seq:        seq.Clone(),
		initScript: initScript,
		runScript:  runScript,
		builtin:    true,
		valid:      seq.IsStorable(),
	}
	if c.valid {
		c.runInit(runner, logger)
	}
	return c
}

// FromFile constructs a combination from a definition file. The sequence is
// decoded from the filename, the scripts from the content, and the init
// script executes before the combination is considered ready for matching.
// Decode failures yield an invalid combination, never an error.
func FromFile(path string, runner script.Runner, logger *log.Logger) *Combination {
	c := &Combination{path: path}

	seq, err := symbol.ParseFilename(baseName(path))
	if err != nil {
		logger.Errorf("bad combination filename %s: %v", path, err)
		return c
	}
	c.seq = seq

	f, err := os.Open(path)
	if err != nil {
		logger.Debugf("combination file %s not readable: %v", path, err)
		return c
	}
	initScript, runScript, err := DecodeDefinition(f)
	_ = f.Close()
	if err != nil {
		logger.Errorf("reading combination file %s: %v", path, err)
		return c
	}

	c.initScript = initScript
	c.runScript = runScript
	c.valid = true
	c.runInit(runner, logger)
	return c
}

// runInit executes the init script exactly once, at the moment the
// combination becomes valid. Failures are logged, not fatal.
func (c *Combination) runInit(runner script.Runner, logger *log.Logger) {
	if runner == nil {
		return
	}
	if err := runner.RunInit(c.initScript, c.setName); err != nil {
		logger.Errorf("init script for %s failed: %v", c.seq.Stem(), err)
	}
}

func (c *Combination) setName(name string) {
	c.name = name
}

// Sequence returns the combination's key sequence.
func (c *Combination) Sequence() symbol.Sequence {
	return c.seq.Clone()
}

// Name returns the display name, or the default when unset or invalid.
func (c *Combination) Name() string {
	if !c.valid || c.name == "" {
		return DefaultName
	}
	return c.name
}

// InitScript returns the init script text.
func (c *Combination) InitScript() string {
	return c.initScript
}

// RunScript returns the run script text.
func (c *Combination) RunScript() string {
	return c.runScript
}

// Path returns the backing file path, "" for builtins.
func (c *Combination) Path() string {
	return c.path
}

// IsBuiltin returns true for non-file-backed combinations.
func (c *Combination) IsBuiltin() bool {
	return c.builtin
}

// IsValid reports whether the combination may participate in matching.
func (c *Combination) IsValid() bool {
	return c.valid
}

// IsEmpty reports a valid combination whose scripts are both blank. Such a
// definition was cleared by the user and its file is removed on reload.
func (c *Combination) IsEmpty() bool {
	return c.valid && isBlank(c.initScript) && isBlank(c.runScript)
}

// Matches returns true if the given sequence equals this combination's key.
// Invalid combinations match nothing.
func (c *Combination) Matches(seq symbol.Sequence) bool {
	if !c.valid {
		return false
	}
	return c.seq.Equal(seq)
}

// IsPrefixMatch returns true if this combination's sequence is strictly
// longer than the partial sequence and starts with it.
func (c *Combination) IsPrefixMatch(partial symbol.Sequence) bool {
	if !c.valid {
		return false
	}
	if partial.Len() >= c.seq.Len() {
		return false
	}
	return c.seq.HasPrefix(partial)
}

// MissingPart renders the symbols still needed after the given partial
// sequence, e.g. "X[3] + Y[4]". Empty if the partial is not a prefix.
func (c *Combination) MissingPart(partial symbol.Sequence) string {
	if !c.IsPrefixMatch(partial) {
		return ""
	}
	return c.seq.Tail(partial.Len())
}
