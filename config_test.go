package quack

import (
	"errors"
	"testing"
)

func TestConfigUnknownKey(t *testing.T) {
	cfg := NewConfig()
	defer cfg.Close()

	err := cfg.Set("definitely_not_a_real_option", "1")
	if err == nil {
		t.Fatal("Expected error for unknown option")
	}
	var engErr *EngineError
	if !errors.As(err, &engErr) {
		t.Fatalf("Expected EngineError, got %T", err)
	}
}

func TestConfigTypedSetters(t *testing.T) {
	cfg := NewConfig()
	defer cfg.Close()

	if err := cfg.SetAccessMode(AccessModeReadWrite); err != nil {
		t.Fatalf("Failed to set access mode: %v", err)
	}
	if err := cfg.SetDefaultOrder(DefaultOrderAsc); err != nil {
		t.Fatalf("Failed to set default order: %v", err)
	}
	if err := cfg.SetDefaultNullOrder(DefaultNullOrderLast); err != nil {
		t.Fatalf("Failed to set null order: %v", err)
	}
	if err := cfg.SetMaxMemory("512MB"); err != nil {
		t.Fatalf("Failed to set max memory: %v", err)
	}
	if err := cfg.SetThreads(4); err != nil {
		t.Fatalf("Failed to set threads: %v", err)
	}

	conn, err := OpenWithConfig(InMemory, cfg)
	if err != nil {
		t.Fatalf("Failed to open with config: %v", err)
	}
	defer conn.Close()
}

func TestConfigReadOnlyRequiresFile(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.SetAccessMode(AccessModeReadOnly); err != nil {
		t.Fatalf("Failed to set access mode: %v", err)
	}

	// An in-memory database cannot be opened read-only.
	if _, err := OpenWithConfig(InMemory, cfg); err == nil {
		t.Fatal("Expected read-only in-memory open to fail")
	}
}

func TestConfigDoubleClose(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.Set("threads", "2"); err != nil {
		t.Fatalf("Failed to set option: %v", err)
	}
	if err := cfg.Close(); err != nil {
		t.Fatalf("Failed to close config: %v", err)
	}
	if err := cfg.Close(); err != nil {
		t.Fatalf("Second close should be a no-op, got %v", err)
	}
}

func TestConfigConsumedByOpen(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.SetThreads(2); err != nil {
		t.Fatalf("Failed to set threads: %v", err)
	}

	db, err := OpenDatabase(InMemory, cfg)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// The open call consumed the config; closing again is a no-op.
	if err := cfg.Close(); err != nil {
		t.Fatalf("Close after consumption should be a no-op, got %v", err)
	}
}
