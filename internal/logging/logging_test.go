package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestSetup_FiltersBelowLevel(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	logger := Setup(&buf, "warn")

	logger.Info("quote computed")
	assert.Empty(t, buf.String())

	slog.Warn("stored config incomplete", "field", "vat_rate")
	assert.Contains(t, buf.String(), "stored config incomplete")
	assert.Contains(t, buf.String(), "vat_rate")
}
