package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func swapCore(t *testing.T, level zap.AtomicLevel) *observer.ObservedLogs {
	t.Helper()

	core, recorded := observer.New(level)
	globalLogger = zap.New(core)
	t.Cleanup(func() {
		globalLogger = zap.NewNop()
	})
	return recorded
}

func TestInitConfiguresGlobalLogger(t *testing.T) {
	t.Cleanup(func() {
		globalLogger = zap.NewNop()
	})

	if err := Init("debug"); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if !Logger().Core().Enabled(zap.DebugLevel) {
		t.Fatal("expected debug level to be enabled")
	}
}

func TestInitFallsBackToInfoOnUnknownLevel(t *testing.T) {
	t.Cleanup(func() {
		globalLogger = zap.NewNop()
	})

	if err := Init("shouting"); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if Logger().Core().Enabled(zap.DebugLevel) {
		t.Fatal("unknown level must not enable debug")
	}
	if !Logger().Core().Enabled(zap.InfoLevel) {
		t.Fatal("expected info level after fallback")
	}
}

func TestHelpersEmitThroughGlobalLogger(t *testing.T) {
	recorded := swapCore(t, zap.NewAtomicLevelAt(zap.DebugLevel))

	Info("submitted", zap.String("stage", "applied"))
	Warn("slow sweep")
	Error("transition refused")
	Debug("cache miss")

	entries := recorded.All()
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	if entries[0].Message != "submitted" {
		t.Fatalf("first entry = %q", entries[0].Message)
	}
	if got := entries[0].ContextMap()["stage"]; got != "applied" {
		t.Fatalf("stage field = %v", got)
	}
}

func TestWithModuleAttachesModuleField(t *testing.T) {
	recorded := swapCore(t, zap.NewAtomicLevelAt(zap.InfoLevel))

	WithModule("pipeline").Info("advanced")

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if module := entries[0].ContextMap()["module"]; module != "pipeline" {
		t.Fatalf("module field = %v", module)
	}
}
