package log

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func withWriter(t *testing.T) *bytes.Buffer {
	t.Helper()
	saved := defaultLogger
	t.Cleanup(func() { defaultLogger = saved })
	var buf bytes.Buffer
	InitWriter(&buf)
	return &buf
}

func TestLog_FormatsEntry(t *testing.T) {
	buf := withWriter(t)

	Info(CatNav, "goto", "from", 1, "to", 2)
	ErrorErr(CatStore, "save failed", errors.New("disk full"))
	Warn(CatRemote, "odd", "orphan")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "[INFO] [nav] goto from=1 to=2")
	require.Contains(t, lines[1], "[ERROR] [store] save failed error=disk full")
	require.Contains(t, lines[2], "orphan=<missing>")
}

func TestLog_MinLevelAndDisable(t *testing.T) {
	buf := withWriter(t)

	SetMinLevel(LevelWarn)
	Debug(CatDeck, "hidden")
	Info(CatDeck, "hidden")
	Warn(CatDeck, "shown")
	require.Equal(t, 1, strings.Count(buf.String(), "\n"))

	SetEnabled(false)
	Error(CatDeck, "muted")
	require.NotContains(t, buf.String(), "muted")
}

func TestGetRecentLogs_KeepsNewest(t *testing.T) {
	withWriter(t)
	defaultLogger.bufSize = 3

	for _, msg := range []string{"a", "b", "c", "d"} {
		Debug(CatUI, msg)
	}
	recent := GetRecentLogs(10)
	require.Len(t, recent, 3)
	require.True(t, strings.HasSuffix(recent[0], " b"))
	require.True(t, strings.HasSuffix(recent[2], " d"))

	require.Len(t, GetRecentLogs(1), 1)
	ClearBuffer()
	require.Empty(t, GetRecentLogs(10))
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, LevelError, ParseLevel("2026-01-01T00:00:00 [ERROR] [nav] x"))
	require.Equal(t, LevelWarn, ParseLevel("[WARN] [fit] y"))
	require.Equal(t, LevelDebug, ParseLevel("no marker"))
}

func TestNewListener_DeliversEntries(t *testing.T) {
	withWriter(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := NewListener(ctx)
	Info(CatSource, "loaded", "entries", 3)

	ev, ok := listener.Next()().(LogEvent)
	require.True(t, ok)
	require.Contains(t, ev.Payload, "[source] loaded entries=3")
}

func TestNewListener_WithoutLogger(t *testing.T) {
	saved := defaultLogger
	t.Cleanup(func() { defaultLogger = saved })
	defaultLogger = nil

	require.Nil(t, NewListener(context.Background()).Next())
}
