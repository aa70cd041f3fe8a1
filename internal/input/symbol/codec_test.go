package symbol

import (
	"testing"
)

func TestFilenameRoundTrip(t *testing.T) {
	// Every length from 1 to the bound, drawn across the alphabet.
	for length := 1; length <= MaxSequenceLen; length++ {
		seq := make(Sequence, length)
		for i := range seq {
			seq[i] = Symbol(1 + (i*5+length)%(int(Count)-1))
		}
		name := seq.Filename()
		got, err := ParseFilename(name)
		if err != nil {
			t.Fatalf("ParseFilename(%q): %v", name, err)
		}
		if !got.Equal(seq) {
			t.Errorf("round trip %q: got %v, want %v", name, got, seq)
		}
	}
}

func TestStemEncoding(t *testing.T) {
	seq := Sequence{A, B, Start}
	if got := seq.Stem(); got != "2-5-1" {
		t.Errorf("Stem = %q, want 2-5-1", got)
	}
	if got := seq.Filename(); got != "2-5-1.txt" {
		t.Errorf("Filename = %q, want 2-5-1.txt", got)
	}
}

func TestParseStemErrors(t *testing.T) {
	tests := []struct {
		name string
		stem string
	}{
		{"empty", ""},
		{"non-numeric segment", "2-x-1"},
		{"trailing separator", "2-5-"},
		{"out of range", "2-99"},
		{"negative", "-1"},
		{"none ordinal", "0"},
		{"too long", "1-2-3-4-5-6-7-8-9-1-2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseStem(tt.stem); err == nil {
				t.Errorf("ParseStem(%q) should fail", tt.stem)
			}
		})
	}
}

func TestParseFilenameStripsExtension(t *testing.T) {
	got, err := ParseFilename("2-4.txt")
	if err != nil {
		t.Fatalf("ParseFilename: %v", err)
	}
	if !got.Equal(Sequence{A, Y}) {
		t.Errorf("got %v, want [A Y]", got)
	}
}
