package app

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/padbind/padbind/internal/event/topic"
	"github.com/padbind/padbind/internal/log"
)

// inputTimeout bounds how long a script prompt waits for an answer.
const inputTimeout = 2 * time.Minute

// ExecLauncher opens definition files with $EDITOR, falling back to the
// platform opener.
type ExecLauncher struct {
	logger *log.Logger
}

// NewExecLauncher creates a launcher.
func NewExecLauncher(logger *log.Logger) *ExecLauncher {
	if logger == nil {
		logger = log.Discard()
	}
	return &ExecLauncher{logger: logger.WithField("component", "editor")}
}

// OpenEditor opens path for editing and returns without waiting. Watching
// the directory picks the result up.
func (l *ExecLauncher) OpenEditor(path string) error {
	if editor := os.Getenv("EDITOR"); editor != "" {
		l.logger.Debugf("opening %s with %s", path, editor)
		cmd := exec.Command("sh", "-c", editor+" "+shellQuote(path))
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Start()
	}
	return openWithPlatform(path)
}

// openWithPlatform hands the target to the OS default opener.
func openWithPlatform(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	return cmd.Start()
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// HostFacility implements the script capability boundary with real process
// and clipboard operations. Exit is a request, not an action: it signals
// the application quit channel so shutdown happens outside any handler.
type HostFacility struct {
	bus     Publisher
	console *Console
	quit    func()
	logger  *log.Logger
}

// NewHostFacility creates the production facility.
func NewHostFacility(bus Publisher, console *Console, quit func(), logger *log.Logger) *HostFacility {
	if logger == nil {
		logger = log.Discard()
	}
	return &HostFacility{
		bus:     bus,
		console: console,
		quit:    quit,
		logger:  logger.WithField("component", "facility"),
	}
}

// Open opens a URI or file with the platform default application.
func (f *HostFacility) Open(uri string) error {
	f.logger.Debugf("opening %s", uri)
	return openWithPlatform(uri)
}

// CopyToClipboard places text on the system clipboard via the platform
// clipboard tool.
func (f *HostFacility) CopyToClipboard(text string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "windows":
		cmd = exec.Command("clip")
	default:
		cmd = exec.Command("xclip", "-selection", "clipboard")
	}
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}

// Execute runs a shell command and waits for it.
func (f *HostFacility) Execute(command string) error {
	f.logger.Debugf("executing %q", command)
	cmd := exec.Command("sh", "-c", command)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%q: %w: %s", command, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Start launches a program without waiting for it.
func (f *HostFacility) Start(program string) error {
	f.logger.Debugf("starting %q", program)
	cmd := exec.Command("sh", "-c", program)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%q: %w", program, err)
	}
	return cmd.Process.Release()
}

// GetInput prompts on the console and returns the answer.
func (f *HostFacility) GetInput(prompt string) (string, error) {
	if f.console == nil {
		return "", fmt.Errorf("no input surface available")
	}
	ctx, cancel := context.WithTimeout(context.Background(), inputTimeout)
	defer cancel()
	return f.console.GetInput(ctx, prompt)
}

// Exit signals the quit channel. The main loop owns the actual shutdown.
func (f *HostFacility) Exit() {
	f.logger.Infof("exit requested by script")
	if f.quit != nil {
		f.quit()
	}
}

// Fire publishes a script-originated event. Unknown kinds are dropped with
// a warning.
func (f *HostFacility) Fire(kind, payload string) {
	t := topic.Topic(kind)
	if !t.IsValid() {
		f.logger.Warnf("script fired unknown event kind %q", kind)
		return
	}
	f.bus.Publish(t, payload)
}
