package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		debug bool
		want  zapcore.Level
	}{
		{name: "info by default", want: zapcore.InfoLevel},
		{name: "debug", debug: true, want: zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			log, err := New(false, tt.debug)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !log.Core().Enabled(tt.want) {
				t.Fatalf("expected level %s to be enabled", tt.want)
			}
			if tt.want == zapcore.InfoLevel && log.Core().Enabled(zapcore.DebugLevel) {
				t.Fatalf("debug must be disabled without the debug flag")
			}
		})
	}
}

func TestConfigEncoding(t *testing.T) {
	t.Parallel()

	cfg := config("json", zapcore.InfoLevel)
	if cfg.Encoding != "json" {
		t.Fatalf("expected json encoding, got %q", cfg.Encoding)
	}
	if len(cfg.OutputPaths) != 1 || cfg.OutputPaths[0] != "stderr" {
		t.Fatalf("expected logs on stderr, got %v", cfg.OutputPaths)
	}
}
