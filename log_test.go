package tofudrf

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	logger.Debug("hidden")
	logger.With("module", "drf").Info("Processing", "energy_keV", 1000)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written: %q", out)
	}
	if !strings.HasSuffix(out, "[drf] [1000] Processing\n") {
		t.Errorf("unexpected format: %q", out)
	}
	if !strings.HasPrefix(out, "[") {
		t.Errorf("missing timestamp: %q", out)
	}
}
