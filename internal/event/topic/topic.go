// Package topic defines the event kinds used on the padbind bus.
package topic

import "strings"

// Topic represents a hierarchical event kind using dot notation.
// Examples: "combo.run", "input.typed"
type Topic string

// The closed set of event kinds. Payload types are fixed per kind:
//
//	Edit        symbol.Sequence — candidate to open in the editor
//	Run         symbol.Sequence — candidate to execute
//	Reload      string          — directory path, or "" for a re-scan
//	SymbolTyped symbol.Symbol   — one raw input symbol
//	ShowPreview symbol.Sequence — current candidate for preview
//	ShowMessage string          — user-visible message text
const (
	Edit        Topic = "combo.edit"
	Run         Topic = "combo.run"
	Reload      Topic = "combo.reload"
	SymbolTyped Topic = "input.typed"
	ShowPreview Topic = "preview.show"
	ShowMessage Topic = "message.show"
)

// Wildcard matches every topic. Used by SubscribeAll.
const Wildcard Topic = "**"

// Separator is the character used to separate topic segments.
const Separator = "."

// All returns every concrete event kind.
func All() []Topic {
	return []Topic{Edit, Run, Reload, SymbolTyped, ShowPreview, ShowMessage}
}

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments returns the topic split by the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// IsValid returns true if the topic is one of the known event kinds.
func (t Topic) IsValid() bool {
	for _, known := range All() {
		if t == known {
			return true
		}
	}
	return false
}

// Matches returns true if this topic matches the given pattern.
// The only supported wildcard is "**", which matches every topic.
func (t Topic) Matches(pattern Topic) bool {
	if pattern == Wildcard {
		return true
	}
	return t == pattern
}
