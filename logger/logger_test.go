package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"DEBUG":   zerolog.DebugLevel,
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"ERROR":   zerolog.ErrorLevel,
		"FATAL":   zerolog.FatalLevel,
		"PANIC":   zerolog.PanicLevel,
		"INFO":    zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for name, expected := range cases {
		require.Equal(t, expected, ParseLevel(name), "level %q", name)
	}
}

func TestNewLoggerReadsEnvironment(t *testing.T) {
	t.Setenv(logLevelEnv, LOG_LEVEL_ERROR)
	l := NewLogger("test")
	require.False(t, l.Warn().Enabled())
	require.True(t, l.Error().Enabled())
}
