package util

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zerolog.Level
	}{
		{0, zerolog.WarnLevel},
		{1, zerolog.InfoLevel},
		{2, zerolog.DebugLevel},
		{3, zerolog.TraceLevel},
		{5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		l := NewLoggerTo(&buf, tt.verbosity)
		if l.GetLevel() != tt.want {
			t.Errorf("verbosity %d: level = %v, want %v", tt.verbosity, l.GetLevel(), tt.want)
		}
	}
}

func TestLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, 0)

	l.Debug().Msg("invisible")
	l.Warn().Msg("visible")

	out := buf.String()
	if strings.Contains(out, "invisible") {
		t.Error("debug message leaked at verbosity 0")
	}
	if !strings.Contains(out, "visible") {
		t.Error("warn message suppressed at verbosity 0")
	}
}

func TestNopLoggerIsSilent(t *testing.T) {
	l := Nop()
	if l.GetLevel() != zerolog.Disabled {
		t.Errorf("nop logger level = %v", l.GetLevel())
	}
}
