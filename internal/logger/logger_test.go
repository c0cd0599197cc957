package logger

import "testing"

func TestNew(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
			log := New(level, format)
			if log == nil {
				t.Fatalf("New(%q, %q) returned nil", level, format)
			}
			log.Debugw("smoke test", "level", level, "format", format)
		}
	}
}
