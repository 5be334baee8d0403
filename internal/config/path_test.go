package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("failed to get home dir: %v", err)
	}
	t.Setenv("PULSE_TEST_DIR", "/srv/pulse")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"tilde prefix", "~/data/pulse.db", filepath.Join(home, "data/pulse.db")},
		{"bare tilde", "~", home},
		{"env var", "$PULSE_TEST_DIR/pulse.db", "/srv/pulse/pulse.db"},
		{"plain path untouched", "/var/lib/pulse.db", "/var/lib/pulse.db"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPath(tt.path); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
