package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Output: &buf})

	l.Debugf("debug message")
	l.Infof("info message")
	l.Warnf("warn message")
	l.Errorf("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("below-threshold messages leaked: %q", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("expected warn and error messages: %q", out)
	}
}

func TestPrefixAndLevelTag(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelInfo, Output: &buf, Prefix: "padbind"})

	l.Infof("hello %s", "world")

	out := buf.String()
	if !strings.Contains(out, "[INFO] padbind: hello world") {
		t.Errorf("output = %q", out)
	}
}

func TestWithFieldRendersSorted(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelInfo, Output: &buf}).
		WithField("component", "bus").
		WithField("attempt", 2)

	l.Infof("msg")

	out := buf.String()
	if !strings.Contains(out, "attempt=2 component=bus") {
		t.Errorf("fields not rendered in sorted order: %q", out)
	}
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := New(Config{Level: LevelInfo, Output: &buf})
	_ = parent.WithField("child", true)

	parent.Infof("msg")

	if strings.Contains(buf.String(), "child=") {
		t.Errorf("parent logger picked up child field: %q", buf.String())
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelError, Output: &buf})

	l.Infof("dropped")
	l.SetLevel(LevelDebug)
	l.Debugf("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("message logged below level: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("message missing after SetLevel: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}
	for _, tc := range cases {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
