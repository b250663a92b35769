package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"issue_tracker/internal/config"
)

func TestNewWritesJSONOutsideDev(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(config.Config{AppEnv: "prod", LogLevel: "info"}, &buf)

	l.Info().Str("ticket", "t-1").Msg("created")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %q", buf.String())
	}
	if entry["message"] != "created" || entry["ticket"] != "t-1" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(config.Config{AppEnv: "prod", LogLevel: "warn"}, &buf)

	l.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info must be filtered at warn level: %q", buf.String())
	}
	if l.GetLevel() != zerolog.WarnLevel {
		t.Fatalf("level = %v", l.GetLevel())
	}
}

func TestNewFallsBackToInfo(t *testing.T) {
	l := newWithWriter(config.Config{AppEnv: "dev", LogLevel: "loud"}, &bytes.Buffer{})
	if l.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("level = %v", l.GetLevel())
	}
}
