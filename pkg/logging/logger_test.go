package logging

import "testing"

func TestNew(t *testing.T) {
	levels := []string{"debug", "info", "warn", "error", "bogus", ""}
	for _, lvl := range levels {
		logger := New(lvl, "production")
		if logger == nil || logger.Logger == nil {
			t.Fatalf("New(%q) returned nil logger", lvl)
		}
	}
}

func TestNewDevelopmentText(t *testing.T) {
	logger := New("debug", "development")
	if logger == nil {
		t.Fatal("expected logger")
	}
	// Should not panic with structured args.
	logger.Debug("test message", "key", "value")
}

func TestDefault(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default returned nil")
	}
}
