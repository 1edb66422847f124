package shared

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShouldUseOSC52(t *testing.T) {
	// Helper to clear all relevant env vars
	clearEnv := func() {
		os.Unsetenv("SSH_TTY")
		os.Unsetenv("SSH_CLIENT")
		os.Unsetenv("SSH_CONNECTION")
		os.Unsetenv("TMUX")
		os.Unsetenv("STY")
	}

	tests := []struct {
		name     string
		envVars  map[string]string
		expected bool
	}{
		{
			name:     "no env vars set",
			envVars:  map[string]string{},
			expected: false,
		},
		{
			name:     "SSH_TTY set",
			envVars:  map[string]string{"SSH_TTY": "/dev/pts/0"},
			expected: true,
		},
		{
			name:     "SSH_CLIENT set",
			envVars:  map[string]string{"SSH_CLIENT": "192.168.1.1 12345 22"},
			expected: true,
		},
		{
			name:     "SSH_CONNECTION set",
			envVars:  map[string]string{"SSH_CONNECTION": "192.168.1.1 12345 192.168.1.2 22"},
			expected: true,
		},
		{
			name:     "TMUX set",
			envVars:  map[string]string{"TMUX": "/tmp/tmux-1000/default,12345,0"},
			expected: true,
		},
		{
			name:     "STY set (GNU screen)",
			envVars:  map[string]string{"STY": "12345.pts-0.hostname"},
			expected: true,
		},
		{
			name:     "SSH and TMUX both set",
			envVars:  map[string]string{"SSH_TTY": "/dev/pts/0", "TMUX": "/tmp/tmux"},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv()
			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}
			t.Cleanup(clearEnv)

			result := shouldUseOSC52()
			require.Equal(t, tt.expected, result)
		})
	}
}

func TestOSC52Sequence(t *testing.T) {
	require.Equal(t, "\x1b]52;c;ZGVjay5tZCMz\x07", osc52Sequence("deck.md#3", false))
	require.Equal(t, "\x1bPtmux;\x1b\x1b]52;c;ZGVjay5tZCMz\x07\x1b\\", osc52Sequence("deck.md#3", true))
}

func TestOSC52SequenceWithSpecialChars(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		encoded string
	}{
		{"simple text", "hello", "aGVsbG8="},
		{"with spaces", "hello world", "aGVsbG8gd29ybGQ="},
		{"with newlines", "line1\nline2", "bGluZTEKbGluZTI="},
		{"unicode", "hello 世界", "aGVsbG8g5LiW55WM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, "\x1b]52;c;"+tt.encoded+"\x07", osc52Sequence(tt.text, false))
		})
	}
}

func TestSystemClipboard_WritesOSC52OverSSH(t *testing.T) {
	t.Setenv("SSH_TTY", "/dev/pts/0")
	t.Setenv("TMUX", "")

	var buf bytes.Buffer
	require.NoError(t, SystemClipboard{Out: &buf}.Copy("talk.md#2"))
	require.Equal(t, osc52Sequence("talk.md#2", false), buf.String())
}

func TestMockClipboard(t *testing.T) {
	m := &MockClipboard{}
	require.NoError(t, m.Copy("a"))
	require.Equal(t, []string{"a"}, m.Copied)

	m.Err = errors.New("boom")
	require.Error(t, m.Copy("b"))
	require.Len(t, m.Copied, 1)
}
