// Package symbol defines the closed gamepad input alphabet and the sequence
// value type built from it.
package symbol

// Symbol is one element of the fixed input alphabet. The zero-based ordinal
// is a stable identity embedded in definition filenames and must never change
// between releases.
type Symbol int

// The alphabet, in ordinal order.
const (
	None Symbol = iota
	Start
	A
	X
	Y
	B
	DPadDown
	DPadLeft
	DPadUp
	DPadRight
	BackSelect
	LB
	RB
	LT
	RT
	LSDown
	LSLeft
	LSUp
	LSRight
	RSDown
	RSLeft
	RSUp
	RSRight
	LSPress
	RSPress

	// Count is the alphabet size, one past the last valid ordinal.
	Count
)

// names holds the canonical symbol names. These are the identifiers exposed
// to scripts and shown in previews, so they keep the original spelling.
var names = [Count]string{
	"NONE",
	"START",
	"A",
	"X",
	"Y",
	"B",
	"DPAD_DOWN",
	"DPAD_LEFT",
	"DPAD_UP",
	"DPAD_RIGHT",
	"BACK_SELECT",
	"LB",
	"RB",
	"LT",
	"RT",
	"LS_DOWN",
	"LS_LEFT",
	"LS_UP",
	"LS_RIGHT",
	"RS_DOWN",
	"RS_LEFT",
	"RS_UP",
	"RS_RIGHT",
	"LS_PRESS",
	"RS_PRESS",
}

// Name returns the canonical symbol name, or "NONE" for out-of-range values.
func (s Symbol) Name() string {
	if s < 0 || s >= Count {
		return names[None]
	}
	return names[s]
}

// String implements fmt.Stringer.
func (s Symbol) String() string {
	return s.Name()
}

// Ordinal returns the stable zero-based identity.
func (s Symbol) Ordinal() int {
	return int(s)
}

// IsValid returns true for any alphabet member other than None.
func (s Symbol) IsValid() bool {
	return s > None && s < Count
}

// FromOrdinal converts an ordinal to a Symbol.
// Returns None and false for out-of-range ordinals.
func FromOrdinal(n int) (Symbol, bool) {
	if n < 0 || n >= int(Count) {
		return None, false
	}
	return Symbol(n), true
}

// FromName converts a canonical name to a Symbol.
// Returns None and false for unknown names.
func FromName(name string) (Symbol, bool) {
	for i, n := range names {
		if n == name {
			return Symbol(i), true
		}
	}
	return None, false
}

// Names returns every canonical name except NONE, in ordinal order.
// Used to build the alphabet namespace exposed to scripts.
func Names() map[string]int {
	out := make(map[string]int, Count-1)
	for s := Start; s < Count; s++ {
		out[s.Name()] = int(s)
	}
	return out
}
