package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewDefaultsToJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Output: &buf})

	logg.Info(context.Background(), "hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if line["service"] != "test" {
		t.Fatalf("service = %v, want test", line["service"])
	}
	if line["message"] != "hello" {
		t.Fatalf("message = %v, want hello", line["message"])
	}
}

func TestNewConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Format: FormatConsole, Output: &buf})

	logg.Info(context.Background(), "hello")

	out := buf.String()
	if out == "" {
		t.Fatal("no output written")
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("console format produced JSON: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	if got := ParseLevel("debug"); got != zerolog.DebugLevel {
		t.Fatalf("ParseLevel(debug) = %v", got)
	}
	if got := ParseLevel(""); got != zerolog.InfoLevel {
		t.Fatalf("ParseLevel empty = %v", got)
	}
	if got := ParseLevel("nonsense"); got != zerolog.InfoLevel {
		t.Fatalf("ParseLevel nonsense = %v", got)
	}
}
