package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit_RejectsUnknownLevel(t *testing.T) {
	if err := Init("chatty", false); err == nil {
		t.Fatal("Init(chatty) returned nil error")
	}
}

func TestHelpersWriteToGlobalLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	prev := L()
	Set(zap.New(core))
	defer Set(prev)

	Info("budgets reloaded", "count", 3)
	Warn("source slow", "source", "sqlite")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Message != "budgets reloaded" {
		t.Fatalf("message = %q, want %q", entries[0].Message, "budgets reloaded")
	}
	if got := entries[0].ContextMap()["count"]; got != int64(3) {
		t.Fatalf("count field = %v, want 3", got)
	}
}
