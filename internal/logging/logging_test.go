package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestInitJSONWritesComponent(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	InitTo(&buf, "info", "json")
	For("store").Info("loaded", "employees", 3)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected json line, got %q: %v", buf.String(), err)
	}
	if line["component"] != "store" {
		t.Fatalf("expected component store, got %v", line["component"])
	}
	if line["msg"] != "loaded" {
		t.Fatalf("unexpected msg %v", line["msg"])
	}
}

func TestInitTextRespectsLevel(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)
	defer SetLevel(slog.LevelInfo)

	var buf bytes.Buffer
	InitTo(&buf, "warn", "text")
	For("storage").Info("hidden")
	For("storage").Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "component=storage") {
		t.Fatalf("expected warn record with component, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"  Error  ", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q): got %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDynamicHandlerEnabled(t *testing.T) {
	SetLevel(slog.LevelWarn)
	defer SetLevel(slog.LevelInfo)

	prev := slog.Default()
	defer slog.SetDefault(prev)
	InitTo(&bytes.Buffer{}, "warn", "text")

	h := &dynamicHandler{}
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should not be enabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestForWithCapture(t *testing.T) {
	c := CaptureForTest()
	defer c.Restore()

	For("feed").With("subscriber", 7).Debug("subscriber joined")

	r, ok := c.Find(slog.LevelDebug, "subscriber joined")
	if !ok {
		t.Fatal("For() logger should use captured handler")
	}
	if v, ok := AttrValue(r, "component"); !ok || v.String() != "feed" {
		t.Fatalf("expected component feed, got %v", v)
	}
	if v, ok := AttrValue(r, "subscriber"); !ok || v.Int64() != 7 {
		t.Fatalf("expected subscriber attr 7, got %v", v)
	}
}

func TestCaptureCountsAndRestore(t *testing.T) {
	prev := slog.Default()
	c := CaptureForTest()

	slog.Info("hello")
	slog.Warn("warning message")
	slog.Debug("debug detail")

	if got := len(c.Records()); got != 3 {
		t.Fatalf("expected 3 records, got %d", got)
	}
	if !c.Has(slog.LevelWarn, "warning") {
		t.Error("should have warn 'warning'")
	}
	if c.Has(slog.LevelError, "hello") {
		t.Error("should not match error level")
	}
	if c.Count(slog.LevelInfo) != 1 || c.Count(slog.LevelError) != 0 {
		t.Errorf("unexpected counts info=%d error=%d", c.Count(slog.LevelInfo), c.Count(slog.LevelError))
	}

	c.Restore()
	if slog.Default() != prev {
		t.Error("default logger not restored")
	}
}
