package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	stdlog "log"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", buf.String(), err)
	}
	return m
}

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "server")

	l.Info("scan done",
		String("engine", "bareiss"),
		Int("order", 3),
		Int64("lo", -5),
		Uint64("scanned", 11),
		Float64("ratio", 0.5),
		Bool("canonical", true),
		Duration("took", time.Millisecond),
	)

	m := decodeLine(t, &buf)
	want := map[string]any{
		"level": "info", "message": "scan done", "component": "server",
		"engine": "bareiss", "order": float64(3), "lo": float64(-5),
		"scanned": float64(11), "ratio": 0.5, "canonical": true,
	}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("field %q = %v, want %v", k, m[k], v)
		}
	}
	if _, ok := m["took"]; !ok {
		t.Error("duration field missing")
	}
}

func TestZerologAdapter_Error(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologAdapter(zerolog.New(&buf))
	l.Error("request failed", errors.New("boom"), String("path", "/eigen"))

	m := decodeLine(t, &buf)
	if m["level"] != "error" || m["error"] != "boom" || m["path"] != "/eigen" {
		t.Errorf("unexpected event: %v", m)
	}
}

func TestZerologAdapter_PrintCompat(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologAdapter(zerolog.New(&buf))

	l.Printf("listening on %s", ":8080")
	if m := decodeLine(t, &buf); m["message"] != "listening on :8080" {
		t.Errorf("Printf message = %v", m["message"])
	}
	buf.Reset()
	l.Println("a", 1)
	if m := decodeLine(t, &buf); m["message"] != "a 1" {
		t.Errorf("Println message = %v", m["message"])
	}
}

func TestStdLoggerAdapter(t *testing.T) {
	var buf bytes.Buffer
	l := NewStdLoggerAdapter(stdlog.New(&buf, "", 0))

	l.Info("started", Int("port", 8080))
	l.Debug("tick")
	l.Error("failed", errors.New("x"))

	out := buf.String()
	for _, want := range []string{"[INFO] started port=8080", "[DEBUG] tick", "[ERROR] failed: x"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestSetup(t *testing.T) {
	origLevel, origLogger := zerolog.GlobalLevel(), log.Logger
	defer func() {
		zerolog.SetGlobalLevel(origLevel)
		log.Logger = origLogger
	}()

	var buf bytes.Buffer
	if err := Setup("warn", &buf, false); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("level filtering failed: %q", buf.String())
	}

	if err := Setup("", &buf, true); err != nil {
		t.Errorf("empty level should default to info: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("level = %v, want info", zerolog.GlobalLevel())
	}
	if err := Setup("loud", &buf, false); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
