package symbol

import (
	"fmt"
	"strconv"
	"strings"
)

// FileExt is the extension of combination definition files.
const FileExt = ".txt"

// Stem encodes the sequence as decimal ordinals joined by '-', e.g. "2-5-1".
func (s Sequence) Stem() string {
	parts := make([]string, len(s))
	for i, sym := range s {
		parts[i] = strconv.Itoa(int(sym))
	}
	return strings.Join(parts, "-")
}

// Filename encodes the sequence as a definition filename, e.g. "2-5-1.txt".
func (s Sequence) Filename() string {
	return s.Stem() + FileExt
}

// ParseStem decodes a filename stem back into a Sequence. A segment that
// fails integer parsing, an out-of-range ordinal, NONE, an empty stem, or a
// stem longer than the sequence bound all invalidate the whole name.
func ParseStem(stem string) (Sequence, error) {
	if stem == "" {
		return nil, fmt.Errorf("empty sequence stem")
	}
	parts := strings.Split(stem, "-")
	if len(parts) > MaxSequenceLen {
		return nil, fmt.Errorf("sequence %q longer than %d symbols", stem, MaxSequenceLen)
	}

	seq := make(Sequence, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("bad symbol ordinal %q: %w", part, err)
		}
		sym, ok := FromOrdinal(n)
		if !ok || !sym.IsValid() {
			return nil, fmt.Errorf("symbol ordinal %d out of range", n)
		}
		seq = append(seq, sym)
	}
	return seq, nil
}

// ParseFilename decodes a definition filename (with or without the .txt
// extension) into a Sequence.
func ParseFilename(name string) (Sequence, error) {
	stem := strings.TrimSuffix(name, FileExt)
	return ParseStem(stem)
}
