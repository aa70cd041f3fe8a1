// Package script defines the script execution capability boundary and its
// Lua implementation. Combinations carry opaque script text; this package
// turns that text into a string result or a structured, line-numbered error.
package script

// Runner is the narrow interface the rest of the system sees: text in,
// result or error out. Implementations must be safe for concurrent use.
type Runner interface {
	// Run executes a run script with the fixed preamble that exposes the
	// alphabet namespace. The returned string is the script's first return
	// value rendered as text, or "" if the script returns nothing.
	Run(text string) (string, error)

	// RunInit executes an init script. setName is bound into the script's
	// environment as combination.setname so the script can set metadata on
	// the combination being loaded.
	RunInit(text string, setName func(string)) error
}

// Facility is the fixed set of host callbacks bound into every script
// environment. Implementations live at the process boundary; scripts reach
// them through the `pad` namespace.
type Facility interface {
	// Open opens a URI in the default application.
	Open(uri string) error

	// CopyToClipboard places text on the system clipboard.
	CopyToClipboard(text string) error

	// Execute runs a shell command.
	Execute(command string) error

	// Start launches a program by path or name.
	Start(program string) error

	// GetInput prompts the user and returns the entered text.
	GetInput(prompt string) (string, error)

	// Exit requests application shutdown.
	Exit()

	// Fire publishes an event onto the bus. The kind is a topic string;
	// a payload of the wrong type for the kind is the receiving
	// subscriber's local error, never a failure here.
	Fire(kind string, payload string)
}

// NopFacility is a Facility that does nothing. Useful in tests.
type NopFacility struct{}

func (NopFacility) Open(string) error            { return nil }
func (NopFacility) CopyToClipboard(string) error { return nil }
func (NopFacility) Execute(string) error         { return nil }
func (NopFacility) Start(string) error           { return nil }
func (NopFacility) GetInput(string) (string, error) {
	return "", nil
}
func (NopFacility) Exit()                 {}
func (NopFacility) Fire(string, string)   {}
