package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizePayloadMasksSensitiveKeys(t *testing.T) {
	payload := map[string]any{
		"accountNumber": "1000000000",
		"password":      "secret",
		"nested": map[string]any{
			"redis_password": "hunter2",
		},
	}

	sanitized, ok := SanitizePayload(payload).(map[string]any)
	if !ok {
		t.Fatal("expected sanitized payload to be a map")
	}
	if sanitized["accountNumber"] != "1000000000" {
		t.Fatalf("expected accountNumber to be kept, got %v", sanitized["accountNumber"])
	}
	if sanitized["password"] != "******" {
		t.Fatalf("expected password to be masked, got %v", sanitized["password"])
	}
	nested := sanitized["nested"].(map[string]any)
	if nested["redis_password"] != "******" {
		t.Fatalf("expected nested redis_password to be masked, got %v", nested["redis_password"])
	}
}

func TestErrorWritesErrorField(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	Use(zap.New(core))
	defer Use(nil)

	Error("transaction service use balance failed", errors.New("boom"), Fields{"accountNumber": "1000000000"})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["error"] != "boom" {
		t.Fatalf("expected error field boom, got %v", ctx["error"])
	}
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	if err := Init("loud"); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}
