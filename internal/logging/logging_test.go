package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"VERBOSE", LevelVerbose},
		{"debug", LevelDebug},
		{"Info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"ERROR", LevelError},
		{"", LevelWarn},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLevel_Zerolog(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, LevelVerbose.Zerolog())
	assert.Equal(t, zerolog.DebugLevel, LevelDebug.Zerolog())
	assert.Equal(t, zerolog.InfoLevel, LevelInfo.Zerolog())
	assert.Equal(t, zerolog.WarnLevel, LevelWarn.Zerolog())
	assert.Equal(t, zerolog.ErrorLevel, LevelError.Zerolog())

	var zero Level
	assert.Equal(t, LevelWarn, zero)
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New(&buf, LevelWarn), "engine")

	log.Debug().Msg("hidden")
	log.Warn().Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, `"component":"engine"`)
}
