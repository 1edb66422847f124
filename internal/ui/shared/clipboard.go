// Package shared provides utilities shared by the presenter UI.
package shared

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
)

// Clipboard defines the interface for clipboard operations.
type Clipboard interface {
	Copy(text string) error
}

// SystemClipboard copies through the OS clipboard, or through an OSC 52
// escape sequence when running over SSH or inside a multiplexer.
type SystemClipboard struct {
	// Out receives OSC 52 sequences. Defaults to os.Stderr.
	Out io.Writer
}

// MockClipboard records copied text for tests.
type MockClipboard struct {
	Copied []string
	Err    error
}

// Copy records text.
func (m *MockClipboard) Copy(text string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Copied = append(m.Copied, text)
	return nil
}

// Copy copies text to the system clipboard.
func (c SystemClipboard) Copy(text string) error {
	if shouldUseOSC52() {
		out := c.Out
		if out == nil {
			out = os.Stderr
		}
		_, err := io.WriteString(out, osc52Sequence(text, os.Getenv("TMUX") != ""))
		return err
	}
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}

// shouldUseOSC52 reports whether the local clipboard is unreachable.
func shouldUseOSC52() bool {
	for _, env := range []string{"SSH_TTY", "SSH_CLIENT", "SSH_CONNECTION", "TMUX", "STY"} {
		if os.Getenv(env) != "" {
			return true
		}
	}
	return false
}

func osc52Sequence(text string, tmux bool) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	if tmux {
		return "\x1bPtmux;\x1b\x1b]52;c;" + encoded + "\x07\x1b\\"
	}
	return "\x1b]52;c;" + encoded + "\x07"
}
