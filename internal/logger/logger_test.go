package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		log, err := New("warn", pretty)
		if err != nil {
			t.Fatalf("New(warn, %v): %v", pretty, err)
		}
		if log.Core().Enabled(zapcore.InfoLevel) {
			t.Errorf("pretty=%v: info enabled at warn level", pretty)
		}
		if !log.Core().Enabled(zapcore.WarnLevel) {
			t.Errorf("pretty=%v: warn disabled", pretty)
		}
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("chatty", false); err == nil {
		t.Error("expected error for unknown level")
	}
}
