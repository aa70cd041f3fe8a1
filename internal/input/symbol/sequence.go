package symbol

import (
	"strconv"
	"strings"
)

// MaxSequenceLen is the maximum number of symbols in a stored or candidate
// sequence.
const MaxSequenceLen = 10

// Sequence is an ordered list of symbols forming a candidate or stored
// combination key. Comparison is order-sensitive and elementwise.
type Sequence []Symbol

// Len returns the number of symbols in the sequence.
func (s Sequence) Len() int {
	return len(s)
}

// IsEmpty returns true if the sequence has no symbols.
func (s Sequence) IsEmpty() bool {
	return len(s) == 0
}

// Equal returns true if both sequences have the same length and identical
// symbols at every position.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i, sym := range s {
		if sym != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix returns true if the sequence starts with the given prefix.
func (s Sequence) HasPrefix(prefix Sequence) bool {
	if len(prefix) > len(s) {
		return false
	}
	for i, sym := range prefix {
		if sym != s[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the sequence.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// Append returns a new sequence with the symbol added. The receiver is not
// modified, so snapshots handed to event payloads stay stable.
func (s Sequence) Append(sym Symbol) Sequence {
	out := make(Sequence, len(s)+1)
	copy(out, s)
	out[len(s)] = sym
	return out
}

// IsStorable returns true if the sequence may key a stored combination:
// non-empty, within the length bound, and free of NONE.
func (s Sequence) IsStorable() bool {
	if len(s) == 0 || len(s) > MaxSequenceLen {
		return false
	}
	for _, sym := range s {
		if !sym.IsValid() {
			return false
		}
	}
	return true
}

// String returns a readable rendering: "A[2] + X[3]".
func (s Sequence) String() string {
	if len(s) == 0 {
		return ""
	}
	parts := make([]string, len(s))
	for i, sym := range s {
		parts[i] = sym.Name() + "[" + strconv.Itoa(int(sym)) + "]"
	}
	return strings.Join(parts, " + ")
}

// Tail returns a readable rendering of the symbols after the first n,
// prefixed with " + " separators. Used to show the remainder of a prefix
// match: given a typed prefix of length n, Tail(n) is what is still missing.
func (s Sequence) Tail(n int) string {
	if n < 0 || n >= len(s) {
		return ""
	}
	return Sequence(s[n:]).String()
}

// Token returns a stable content-based identity for the sequence. Two
// structurally equal sequences yield the same token.
func (s Sequence) Token() string {
	return s.Stem()
}
