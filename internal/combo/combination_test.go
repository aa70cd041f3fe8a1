package combo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/padbind/padbind/internal/input/symbol"
	"github.com/padbind/padbind/internal/log"
	"github.com/padbind/padbind/internal/script"
)

func newTestRunner(t *testing.T) script.Runner {
	t.Helper()
	e := script.NewEngine(nil, log.Discard())
	t.Cleanup(e.Close)
	return e
}

func writeDefinition(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestFromFileValid(t *testing.T) {
	dir := t.TempDir()
	path := writeDefinition(t, dir, "2-4.txt",
		":init\ncombination.setname(\"Greeting\")\n:run\nreturn \"Hi\"")

	c := FromFile(path, newTestRunner(t), log.Discard())
	if !c.IsValid() {
		t.Fatal("combination should be valid")
	}
	if !c.Sequence().Equal(symbol.Sequence{symbol.A, symbol.Y}) {
		t.Errorf("sequence = %v", c.Sequence())
	}
	if c.Name() != "Greeting" {
		t.Errorf("name = %q, want Greeting", c.Name())
	}
	if c.RunScript() != "return \"Hi\"\n" {
		t.Errorf("run script = %q", c.RunScript())
	}
	if c.IsBuiltin() {
		t.Error("file-backed combination reported as builtin")
	}
}

func TestFromFileBadFilenameIsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := writeDefinition(t, dir, "2-99.txt", "return 1")

	c := FromFile(path, newTestRunner(t), log.Discard())
	if c.IsValid() {
		t.Error("out-of-range ordinal should yield an invalid combination")
	}
	if c.Matches(symbol.Sequence{symbol.A}) {
		t.Error("invalid combination must match nothing")
	}
}

func TestFromFileMissingFileIsInvalid(t *testing.T) {
	c := FromFile(filepath.Join(t.TempDir(), "2.txt"), newTestRunner(t), log.Discard())
	if c.IsValid() {
		t.Error("missing file should yield an invalid combination")
	}
}

func TestNameDefaultsWhenInitSetsNone(t *testing.T) {
	dir := t.TempDir()
	path := writeDefinition(t, dir, "3.txt", "return 1")

	c := FromFile(path, newTestRunner(t), log.Discard())
	if c.Name() != DefaultName {
		t.Errorf("name = %q, want %q", c.Name(), DefaultName)
	}
}

func TestIsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := writeDefinition(t, dir, "2.txt", "//only comments\n:init\n:run\n")

	c := FromFile(path, newTestRunner(t), log.Discard())
	if !c.IsEmpty() {
		t.Error("comment-only definition should be empty")
	}

	path = writeDefinition(t, dir, "3.txt", "return 1")
	if c := FromFile(path, newTestRunner(t), log.Discard()); c.IsEmpty() {
		t.Error("definition with a run script is not empty")
	}
}

func TestPrefixMatchIsStrict(t *testing.T) {
	c := NewBuiltin(symbol.Sequence{symbol.A, symbol.B, symbol.X}, "", "", nil, log.Discard())

	if !c.IsPrefixMatch(symbol.Sequence{symbol.A}) {
		t.Error("one-symbol prefix should match")
	}
	if !c.IsPrefixMatch(symbol.Sequence{symbol.A, symbol.B}) {
		t.Error("two-symbol prefix should match")
	}
	if c.IsPrefixMatch(symbol.Sequence{symbol.A, symbol.B, symbol.X}) {
		t.Error("equal sequence is not a prefix match")
	}
	if c.IsPrefixMatch(symbol.Sequence{symbol.B}) {
		t.Error("non-prefix should not match")
	}
}

func TestMissingPart(t *testing.T) {
	c := NewBuiltin(symbol.Sequence{symbol.A, symbol.B, symbol.X}, "", "", nil, log.Discard())

	got := c.MissingPart(symbol.Sequence{symbol.A})
	want := "B[5] + X[3]"
	if got != want {
		t.Errorf("missing part = %q, want %q", got, want)
	}
	if c.MissingPart(symbol.Sequence{symbol.X}) != "" {
		t.Error("non-prefix should render no missing part")
	}
}

func TestBuiltinInitRuns(t *testing.T) {
	c := NewBuiltin(symbol.Sequence{symbol.BackSelect}, `combination.setname("Setup")`, "", newTestRunner(t), log.Discard())
	if c.Name() != "Setup" {
		t.Errorf("name = %q, want Setup", c.Name())
	}
	if !c.IsBuiltin() {
		t.Error("expected builtin")
	}
}
