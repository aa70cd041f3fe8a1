package script

import (
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/padbind/padbind/internal/input/symbol"
	"github.com/padbind/padbind/internal/log"
	"github.com/padbind/padbind/internal/version"
)

// Engine is the Lua implementation of Runner.
//
// gopher-lua's LState is not goroutine-safe, so every execution is serialized
// behind a mutex. Scripts run against a sandboxed state: base, table, string,
// and math libraries only; io, os, debug, and package stay closed, host
// access goes through the bound `pad` namespace.
type Engine struct {
	mu       sync.Mutex
	L        *lua.LState
	logger   *log.Logger
	facility Facility
	preamble string
	closed   bool
}

// NewEngine creates a sandboxed Lua engine with the facility bindings, the
// alphabet namespace, and version metadata installed.
func NewEngine(facility Facility, logger *log.Logger) *Engine {
	if facility == nil {
		facility = NopFacility{}
	}
	if logger == nil {
		logger = log.Discard()
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	e := &Engine{
		L:        L,
		logger:   logger.WithField("component", "script"),
		facility: facility,
		preamble: buildPreamble(),
	}
	e.installKeys()
	e.installVersion()
	e.installFacility()
	return e
}

// openSafeLibraries opens only side-effect-free Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// buildPreamble produces the fixed preamble prepended to every run script:
// one global assignment per alphabet name, so scripts can write DPAD_LEFT
// instead of keys.DPAD_LEFT.
func buildPreamble() string {
	names := symbol.Names()
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	var sb strings.Builder
	for _, name := range sorted {
		sb.WriteString(name)
		sb.WriteString(" = keys.")
		sb.WriteString(name)
		sb.WriteString("; ")
	}
	sb.WriteByte('\n')
	return sb.String()
}

// installKeys exposes the alphabet namespace as the `keys` table.
func (e *Engine) installKeys() {
	tbl := e.L.NewTable()
	for name, ordinal := range symbol.Names() {
		e.L.SetField(tbl, name, lua.LNumber(ordinal))
	}
	e.L.SetGlobal("keys", tbl)
}

// installVersion exposes build metadata as the `version` table.
func (e *Engine) installVersion() {
	tbl := e.L.NewTable()
	e.L.SetField(tbl, "version", lua.LString(version.Version))
	e.L.SetField(tbl, "build_date", lua.LString(version.BuildDate))
	e.L.SetField(tbl, "build_time", lua.LString(version.BuildTime))
	e.L.SetGlobal("version", tbl)
}

// installFacility exposes the host callbacks as the `pad` namespace.
func (e *Engine) installFacility() {
	funcs := map[string]lua.LGFunction{
		"open": func(L *lua.LState) int {
			if err := e.facility.Open(L.CheckString(1)); err != nil {
				e.logger.Errorf("open failed: %v", err)
			}
			return 0
		},
		"clipboard": func(L *lua.LState) int {
			if err := e.facility.CopyToClipboard(L.CheckString(1)); err != nil {
				e.logger.Errorf("clipboard failed: %v", err)
			}
			return 0
		},
		"execute": func(L *lua.LState) int {
			if err := e.facility.Execute(L.CheckString(1)); err != nil {
				e.logger.Errorf("execute failed: %v", err)
			}
			return 0
		},
		"start": func(L *lua.LState) int {
			if err := e.facility.Start(L.CheckString(1)); err != nil {
				e.logger.Errorf("start failed: %v", err)
			}
			return 0
		},
		"input": func(L *lua.LState) int {
			answer, err := e.facility.GetInput(L.CheckString(1))
			if err != nil {
				e.logger.Errorf("input failed: %v", err)
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LString(answer))
			return 1
		},
		"exit": func(L *lua.LState) int {
			e.facility.Exit()
			return 0
		},
		"fire": func(L *lua.LState) int {
			e.facility.Fire(L.CheckString(1), L.OptString(2, ""))
			return 0
		},
		"reload": func(L *lua.LState) int {
			e.facility.Fire("combo.reload", L.OptString(1, ""))
			return 0
		},
		"message": func(L *lua.LState) int {
			e.facility.Fire("message.show", L.CheckString(1))
			return 0
		},
	}

	mod := e.L.SetFuncs(e.L.NewTable(), funcs)
	e.L.SetGlobal("pad", mod)
}

// Run executes a run script and returns its first return value as text.
func (e *Engine) Run(text string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return "", &Error{Message: "script engine is closed"}
	}
	return e.eval(e.preamble + text)
}

// RunInit executes an init script with combination.setname bound.
func (e *Engine) RunInit(text string, setName func(string)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return &Error{Message: "script engine is closed"}
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	combo := e.L.NewTable()
	e.L.SetField(combo, "setname", e.L.NewFunction(func(L *lua.LState) int {
		if setName != nil {
			setName(L.CheckString(1))
		}
		return 0
	}))
	e.L.SetGlobal("combination", combo)
	defer e.L.SetGlobal("combination", lua.LNil)

	_, err := e.eval(text)
	return err
}

// eval loads and runs source, collecting the first returned value.
// The caller must hold e.mu.
func (e *Engine) eval(source string) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Message: "script panic"}
			e.logger.Errorf("lua panic: %v", r)
		}
	}()

	fn, loadErr := e.L.LoadString(source)
	if loadErr != nil {
		return "", newError(loadErr)
	}

	top := e.L.GetTop()
	e.L.Push(fn)
	if callErr := e.L.PCall(0, lua.MultRet, nil); callErr != nil {
		return "", newError(callErr)
	}

	nret := e.L.GetTop() - top
	if nret <= 0 {
		return "", nil
	}
	first := e.L.Get(top + 1)
	e.L.Pop(nret)

	if first == lua.LNil {
		return "", nil
	}
	return first.String(), nil
}

// Close releases the Lua state. Further executions fail.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true
	e.L.Close()
}
