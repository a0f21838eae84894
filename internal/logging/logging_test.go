package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", "json")
	logger.Info("player created", "player_id", 7)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected a JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "player created" {
		t.Errorf("Expected msg 'player created', got %v", entry["msg"])
	}
	if entry["player_id"] != float64(7) {
		t.Errorf("Expected player_id 7, got %v", entry["player_id"])
	}
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "debug", "text").Debug("listing players")

	if !strings.Contains(buf.String(), "msg=\"listing players\"") {
		t.Errorf("Expected a text log line, got %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	testCases := []struct {
		level     string
		debugSeen bool
		infoSeen  bool
	}{
		{level: "debug", debugSeen: true, infoSeen: true},
		{level: "info", debugSeen: false, infoSeen: true},
		{level: "warn", debugSeen: false, infoSeen: false},
		{level: "nonsense", debugSeen: false, infoSeen: true},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(&buf, tc.level, "text")

			logger.Debug("debug line")
			if got := strings.Contains(buf.String(), "debug line"); got != tc.debugSeen {
				t.Errorf("debug line seen = %v, want %v", got, tc.debugSeen)
			}
			logger.Info("info line")
			if got := strings.Contains(buf.String(), "info line"); got != tc.infoSeen {
				t.Errorf("info line seen = %v, want %v", got, tc.infoSeen)
			}
		})
	}
}
