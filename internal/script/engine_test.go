package script

import (
	"errors"
	"strings"
	"testing"

	"github.com/padbind/padbind/internal/log"
)

func newTestEngine(f Facility) *Engine {
	return NewEngine(f, log.Discard())
}

func TestRunReturnsString(t *testing.T) {
	e := newTestEngine(nil)
	defer e.Close()

	got, err := e.Run(`return "Hi"`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "Hi" {
		t.Errorf("result = %q, want Hi", got)
	}
}

func TestRunNoReturnYieldsEmpty(t *testing.T) {
	e := newTestEngine(nil)
	defer e.Close()

	got, err := e.Run(`local x = 1 + 1`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "" {
		t.Errorf("result = %q, want empty", got)
	}
}

func TestRunNumberResultRendered(t *testing.T) {
	e := newTestEngine(nil)
	defer e.Close()

	got, err := e.Run(`return 1 + 2`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "3" {
		t.Errorf("result = %q, want 3", got)
	}
}

func TestRunExposesAlphabetNamespace(t *testing.T) {
	e := newTestEngine(nil)
	defer e.Close()

	got, err := e.Run(`return keys.A .. "-" .. keys.DPAD_LEFT`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "2-7" {
		t.Errorf("keys lookup = %q, want 2-7", got)
	}

	// The preamble also lifts names into globals.
	got, err = e.Run(`return BACK_SELECT`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "10" {
		t.Errorf("global BACK_SELECT = %q, want 10", got)
	}
}

func TestRunErrorCarriesLineNumber(t *testing.T) {
	e := newTestEngine(nil)
	defer e.Close()

	_, err := e.Run("local x = 1\nerror(\"boom\")")
	if err == nil {
		t.Fatal("expected error")
	}
	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("error is %T, want *script.Error", err)
	}
	if serr.Line == 0 {
		t.Error("expected a line number")
	}
	if !strings.Contains(serr.Message, "boom") {
		t.Errorf("message = %q, want it to contain boom", serr.Message)
	}
}

func TestRunSyntaxError(t *testing.T) {
	e := newTestEngine(nil)
	defer e.Close()

	_, err := e.Run(`return "unterminated`)
	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("error is %T, want *script.Error", err)
	}
}

func TestRunInitSetsName(t *testing.T) {
	e := newTestEngine(nil)
	defer e.Close()

	var name string
	err := e.RunInit(`combination.setname("Browser")`, func(n string) { name = n })
	if err != nil {
		t.Fatalf("RunInit: %v", err)
	}
	if name != "Browser" {
		t.Errorf("name = %q, want Browser", name)
	}
}

func TestRunInitEmptyScriptIsNoop(t *testing.T) {
	e := newTestEngine(nil)
	defer e.Close()

	if err := e.RunInit("  \n", func(string) { t.Error("setname called") }); err != nil {
		t.Fatalf("RunInit: %v", err)
	}
}

func TestCombinationBindingRemovedAfterInit(t *testing.T) {
	e := newTestEngine(nil)
	defer e.Close()

	if err := e.RunInit(`combination.setname("x")`, func(string) {}); err != nil {
		t.Fatalf("RunInit: %v", err)
	}
	got, err := e.Run(`return tostring(combination)`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "nil" {
		t.Errorf("combination still bound after init: %q", got)
	}
}

func TestSandboxExcludesOSAndIO(t *testing.T) {
	e := newTestEngine(nil)
	defer e.Close()

	got, err := e.Run(`return tostring(os) .. "/" .. tostring(io)`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "nil/nil" {
		t.Errorf("sandbox leak: %q", got)
	}
}

// recordingFacility records calls for binding tests.
type recordingFacility struct {
	NopFacility
	fired    [][2]string
	executed []string
	exited   bool
	answer   string
}

func (r *recordingFacility) Fire(kind, payload string) {
	r.fired = append(r.fired, [2]string{kind, payload})
}

func (r *recordingFacility) Execute(cmd string) error {
	r.executed = append(r.executed, cmd)
	return nil
}

func (r *recordingFacility) Exit() { r.exited = true }

func (r *recordingFacility) GetInput(string) (string, error) {
	return r.answer, nil
}

func TestFacilityBindings(t *testing.T) {
	fac := &recordingFacility{answer: "yes"}
	e := newTestEngine(fac)
	defer e.Close()

	script := `
pad.execute("echo hi")
pad.fire("combo.reload", "/tmp/combos")
pad.reload()
pad.message("done")
local answer = pad.input("sure?")
pad.exit()
return answer
`
	got, err := e.Run(script)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "yes" {
		t.Errorf("input answer = %q, want yes", got)
	}
	if len(fac.executed) != 1 || fac.executed[0] != "echo hi" {
		t.Errorf("executed = %v", fac.executed)
	}
	want := [][2]string{
		{"combo.reload", "/tmp/combos"},
		{"combo.reload", ""},
		{"message.show", "done"},
	}
	if len(fac.fired) != len(want) {
		t.Fatalf("fired = %v", fac.fired)
	}
	for i, w := range want {
		if fac.fired[i] != w {
			t.Errorf("fired[%d] = %v, want %v", i, fac.fired[i], w)
		}
	}
	if !fac.exited {
		t.Error("exit binding did not reach the facility")
	}
}

func TestRunAfterCloseFails(t *testing.T) {
	e := newTestEngine(nil)
	e.Close()
	if _, err := e.Run(`return 1`); err == nil {
		t.Error("expected error after Close")
	}
	if err := e.RunInit(`x = 1`, nil); err == nil {
		t.Error("expected init error after Close")
	}
}
