package combo

import (
	"bufio"
	"io"
	"path/filepath"
	"strings"
)

// Section markers. Matching is a leading-substring check, case-sensitive, so
// ":init setup" still starts the init section.
const (
	markerInit = ":init"
	markerRun  = ":run"
)

// DecodeDefinition splits definition-file content into the init and run
// scripts:
//
//   - lines starting with "//" are comments and dropped
//   - a line starting with ":init" selects the init section, ":run" the run
//     section; other ":" lines are dropped
//   - every other line accumulates, newline-joined, into the active section
//   - content before the first marker belongs to the run section
//
// Markers may appear in any order and any number of times; later content for
// a section appends to what is already there.
func DecodeDefinition(r io.Reader) (initScript, runScript string, err error) {
	var initPart, runPart, active strings.Builder
	inRun := true

	flush := func() {
		if inRun {
			runPart.WriteString(active.String())
		} else {
			initPart.WriteString(active.String())
		}
		active.Reset()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, ":") {
			switch {
			case strings.HasPrefix(line, markerInit):
				flush()
				inRun = false
			case strings.HasPrefix(line, markerRun):
				flush()
				inRun = true
			}
			// Unknown ":" lines are dropped.
			continue
		}
		active.WriteString(line)
		active.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return "", "", err
	}
	flush()

	return initPart.String(), runPart.String(), nil
}

// baseName returns the final path element.
func baseName(path string) string {
	return filepath.Base(path)
}

// isBlank reports whether a script is empty or whitespace only.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
