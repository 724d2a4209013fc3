package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()
	cases := []struct {
		input string
		want  log.Level
	}{
		{"", log.InfoLevel},
		{"debug", log.DebugLevel},
		{"DEBUG", log.DebugLevel},
		{" info ", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"WARNING", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"CRITICAL", log.ErrorLevel},
		{"20", log.InfoLevel},
		{"10", log.DebugLevel},
	}
	for _, tc := range cases {
		got, err := ParseLevel(tc.input)
		if err != nil {
			t.Errorf("ParseLevel(%q): unexpected error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParseLevel_Invalid(t *testing.T) {
	t.Parallel()
	for _, input := range []string{"verbose", "15", "loud"} {
		if _, err := ParseLevel(input); err == nil {
			t.Errorf("ParseLevel(%q): expected error, got nil", input)
		}
	}
}

func TestNew_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := New(&buf, Options{Prefix: "fn", Level: "info"})
	if err != nil {
		t.Fatalf("New: unexpected error: %v", err)
	}

	logger.Debug("hidden")
	logger.Warn("Lambda layer does not exist.", "error", "NotFound", "errorDetail", "no versions")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %q", len(lines), buf.String())
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, lines[0])
	}
	if record["error"] != "NotFound" {
		t.Errorf("error field: got %v, want %q", record["error"], "NotFound")
	}
	if record["errorDetail"] != "no versions" {
		t.Errorf("errorDetail field: got %v", record["errorDetail"])
	}
}

func TestNew_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := New(&buf, Options{Format: FormatText, Level: "debug"})
	if err != nil {
		t.Fatalf("New: unexpected error: %v", err)
	}
	logger.Debug("hello", "layerName", "mylayer")
	if !strings.Contains(buf.String(), "mylayer") {
		t.Errorf("text output missing field: %q", buf.String())
	}
}

func TestNew_InvalidFormat(t *testing.T) {
	t.Parallel()
	if _, err := New(&bytes.Buffer{}, Options{Format: "xml"}); err == nil {
		t.Fatal("New(xml): expected error, got nil")
	}
}
