package combo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/padbind/padbind/internal/input/symbol"
	"github.com/padbind/padbind/internal/log"
	"github.com/padbind/padbind/internal/script"
)

// DefaultDirName is the fallback combinations directory, created under the
// working directory when no usable path is supplied.
const DefaultDirName = "combinations"

// PreviewLimit is the maximum number of prefix possibilities shown alongside
// the precise match.
const PreviewLimit = 5

var (
	// ErrBuiltinCombination is returned when editing a builtin combination.
	ErrBuiltinCombination = errors.New("builtin combinations can not be edited")

	// ErrInvalidCombination is returned when registering an invalid
	// combination.
	ErrInvalidCombination = errors.New("combination is invalid")

	// ErrDuplicateSequence is returned when registering a sequence that is
	// already bound. The first-registered combination wins.
	ErrDuplicateSequence = errors.New("sequence already bound to a combination")
)

// EditorLauncher opens a definition file in the user's editor. It is an
// external collaborator; the store only hands it a path.
type EditorLauncher interface {
	OpenEditor(path string) error
}

// Store owns the registered combination set. All mutation goes through the
// store's own operations; reload replaces the whole set atomically so
// concurrent readers always observe a consistent snapshot.
type Store struct {
	mu     sync.RWMutex
	combos []*Combination
	dir    string

	runner   script.Runner
	launcher EditorLauncher
	logger   *log.Logger
}

// NewStore creates an empty store. Reload must run before matching.
func NewStore(runner script.Runner, launcher EditorLauncher, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Discard()
	}
	return &Store{
		runner:   runner,
		launcher: launcher,
		logger:   logger.WithField("component", "store"),
	}
}

// Dir returns the active combinations directory.
func (s *Store) Dir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dir
}

// Count returns the number of registered combinations.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.combos)
}

// Reload clears all current combinations, re-registers the builtin set, then
// scans the active directory and registers one combination per definition
// file. Files that decode to an empty definition are deleted instead.
//
// If dir is non-empty and an existing directory, it becomes the active
// directory. Otherwise the previous directory is kept; with none set, the
// default directory is used and created if missing.
func (s *Store) Reload(dir string) error {
	active, err := s.resolveDir(dir)
	if err != nil {
		return err
	}

	next := make([]*Combination, 0, 16)
	for _, b := range s.builtins() {
		next = s.registerInto(next, b)
	}

	entries, err := os.ReadDir(active)
	if err != nil {
		s.logger.Errorf("listing %s: %v", active, err)
	} else {
		found := 0
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), symbol.FileExt) {
				continue
			}
			found++
			path := filepath.Join(active, entry.Name())
			c := FromFile(path, s.runner, s.logger)
			if c.IsEmpty() {
				s.logger.Infof("removing empty combination %s", entry.Name())
				if err := os.Remove(path); err != nil {
					s.logger.Errorf("can not delete %s: %v", path, err)
				}
				continue
			}
			next = s.registerInto(next, c)
		}
		s.logger.Debugf("found %d definition files", found)
	}

	s.mu.Lock()
	s.dir = active
	s.combos = next
	s.mu.Unlock()
	return nil
}

// resolveDir picks the active directory per the fallback rules.
func (s *Store) resolveDir(dir string) (string, error) {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
		s.logger.Warnf("%s is not a usable directory, falling back", dir)
	} else if current := s.Dir(); current != "" {
		return current, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	fallback := filepath.Join(wd, DefaultDirName)
	if err := os.MkdirAll(fallback, 0o755); err != nil {
		// Not fatal for startup; the scan will log again.
		s.logger.Errorf("creating %s: %v", fallback, err)
	}
	return fallback, nil
}

// builtins returns the fixed builtin set registered on every reload.
func (s *Store) builtins() []*Combination {
	return []*Combination{
		NewBuiltin(
			symbol.Sequence{symbol.BackSelect},
			`combination.setname("Application Setup")`,
			"",
			s.runner, s.logger,
		),
		NewBuiltin(
			symbol.Sequence{symbol.BackSelect, symbol.DPadLeft},
			`combination.setname("Reload")`,
			`pad.reload()`,
			s.runner, s.logger,
		),
		NewBuiltin(
			symbol.Sequence{symbol.BackSelect, symbol.DPadUp},
			`combination.setname("Exit")`,
			"pad.exit()\nreturn \"Exiting\"",
			s.runner, s.logger,
		),
	}
}

// registerInto appends c to the list unless it is invalid or duplicates an
// already-registered sequence. Rejections are logged, never fatal.
func (s *Store) registerInto(list []*Combination, c *Combination) []*Combination {
	if err := checkRegistrable(list, c); err != nil {
		s.logger.Warnf("not registering combination: %v", err)
		return list
	}
	return append(list, c)
}

// Register adds a single combination to the live set, subject to the same
// validity and uniqueness rules as reload. The set reference is replaced,
// not mutated, so concurrent readers keep their snapshot.
func (s *Store) Register(c *Combination) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := checkRegistrable(s.combos, c); err != nil {
		s.logger.Warnf("not registering combination: %v", err)
		return err
	}
	next := make([]*Combination, len(s.combos), len(s.combos)+1)
	copy(next, s.combos)
	s.combos = append(next, c)
	return nil
}

func checkRegistrable(list []*Combination, c *Combination) error {
	if c == nil || !c.IsValid() {
		return ErrInvalidCombination
	}
	seq := c.seq
	for _, existing := range list {
		if existing.Matches(seq) {
			return fmt.Errorf("%w: %s", ErrDuplicateSequence, seq.Stem())
		}
	}
	return nil
}

// snapshot returns the current registered set. The slice is replaced
// wholesale on reload, so holders never see a partially rebuilt store.
func (s *Store) snapshot() []*Combination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.combos
}

// FindExact returns the registered combination whose sequence equals seq.
// If none is registered, it synthesizes one from the corresponding
// definition file path without registering it; the result may be invalid.
// Never returns nil.
func (s *Store) FindExact(seq symbol.Sequence) *Combination {
	for _, c := range s.snapshot() {
		if c.Matches(seq) {
			return c
		}
	}
	return FromFile(filepath.Join(s.Dir(), seq.Filename()), s.runner, s.logger)
}

// FindPrefixMatches returns every registered valid combination whose
// sequence is strictly longer than partial and starts with it, in store
// iteration order, capped at limit.
func (s *Store) FindPrefixMatches(partial symbol.Sequence, limit int) []*Combination {
	var out []*Combination
	for _, c := range s.snapshot() {
		if len(out) >= limit {
			break
		}
		if c.IsPrefixMatch(partial) {
			out = append(out, c)
		}
	}
	return out
}

// Edit resolves the combination for seq and hands its backing file to the
// editor launcher, creating the file from the template first if needed.
// Builtin combinations are rejected with ErrBuiltinCombination.
func (s *Store) Edit(seq symbol.Sequence) error {
	c := s.FindExact(seq)
	if c.IsBuiltin() {
		return ErrBuiltinCombination
	}

	path := c.Path()
	if path == "" {
		path = filepath.Join(s.Dir(), seq.Filename())
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("checking %s: %w", path, err)
		}
		s.logger.Debugf("creating new combination file %s", path)
		if err := os.WriteFile(path, []byte(definitionTemplate), 0o644); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}

	if s.launcher == nil {
		return nil
	}
	if err := s.launcher.OpenEditor(path); err != nil {
		return fmt.Errorf("opening editor for %s: %w", path, err)
	}
	return nil
}
