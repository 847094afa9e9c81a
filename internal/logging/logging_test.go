package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", DefaultLevel},
		{"chatty", DefaultLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "ParseLevel(%q)", tt.in)
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer

	log := New(&buf, "warn")
	log.Info().Msg("hidden")
	log.Warn().Str("file", "utils.js").Msg("unhandled import")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "unhandled import")
	assert.Contains(t, out, "file=utils.js")
	assert.NotContains(t, out, "\x1b[", "non-terminal output must not be colored")
}
