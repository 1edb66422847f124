package tracing

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func readRecords(t *testing.T, path string) []SpanRecord {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out []SpanRecord
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var rec SpanRecord
		require.NoError(t, json.Unmarshal([]byte(line), &rec), "each line is a JSON object")
		out = append(out, rec)
	}
	return out
}

func TestFileExporter_WritesValidJSONL(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")

	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	start := time.Now()
	stub := tracetest.SpanStub{
		Name:      SpanGoTo,
		StartTime: start,
		EndTime:   start.Add(240 * time.Millisecond),
		Status:    sdktrace.Status{Code: codes.Ok},
		Attributes: []attribute.KeyValue{
			attribute.Int(AttrDeckFrom, 0),
			attribute.Int(AttrDeckTo, 2),
			attribute.String(AttrDeckSource, "keyboard"),
		},
		Events: []sdktrace.Event{{
			Name:       "settled",
			Time:       start.Add(240 * time.Millisecond),
			Attributes: []attribute.KeyValue{attribute.Int("active", 2)},
		}},
	}

	require.NoError(t, exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))
	require.NoError(t, exporter.Shutdown(context.Background()))

	records := readRecords(t, tracePath)
	require.Len(t, records, 1)
	rec := records[0]
	require.Equal(t, SpanGoTo, rec.Name)
	require.Equal(t, "OK", rec.Status)
	require.InDelta(t, 240.0, rec.DurationMs, 0.001)
	require.EqualValues(t, 2, rec.Attributes[AttrDeckTo])
	require.Equal(t, "keyboard", rec.Attributes[AttrDeckSource])
	require.Len(t, rec.Events, 1)
	require.EqualValues(t, 2, rec.Events[0].Attributes["active"])
}

func TestFileExporter_AppendsAcrossOpens(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "nested", "traces.jsonl")

	for i := 0; i < 2; i++ {
		exporter, err := NewFileExporter(tracePath)
		require.NoError(t, err)
		stub := tracetest.SpanStub{Name: "span", StartTime: time.Now(), EndTime: time.Now()}
		require.NoError(t, exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))
		require.NoError(t, exporter.Shutdown(context.Background()))
	}

	require.Len(t, readRecords(t, tracePath), 2)
}

func TestFileExporter_ErrorStatus(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")
	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	stub := tracetest.SpanStub{
		Name:      SpanLoad,
		StartTime: time.Now(),
		EndTime:   time.Now(),
		Status:    sdktrace.Status{Code: codes.Error, Description: "fetch failed"},
	}
	require.NoError(t, exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))
	require.NoError(t, exporter.Shutdown(context.Background()))

	rec := readRecords(t, tracePath)[0]
	require.Equal(t, "ERROR", rec.Status)
	require.Equal(t, "fetch failed", rec.StatusMsg)
}

func TestFileExporter_ExportAfterShutdown(t *testing.T) {
	exporter, err := NewFileExporter(filepath.Join(t.TempDir(), "traces.jsonl"))
	require.NoError(t, err)
	require.NoError(t, exporter.Shutdown(context.Background()))
	require.NoError(t, exporter.Shutdown(context.Background()), "shutdown is idempotent")

	stub := tracetest.SpanStub{Name: "late"}
	require.NoError(t, exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))
}
