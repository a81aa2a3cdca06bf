package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "otokonime.log")

	log, err := New("DEBUG", path)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	log.Debug("hello")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	line := strings.TrimSpace(string(data))
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("not JSON: %q", line)
	}
	if entry["msg"] != "hello" || entry["level"] != "debug" {
		t.Errorf("unexpected entry %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Error("missing ts")
	}
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := New("chatty", path)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	log.Debug("dropped")
	log.Info("kept")
	_ = log.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "dropped") || !strings.Contains(string(data), "kept") {
		t.Errorf("unexpected log output %q", data)
	}
}

func TestNewWithoutFileIsNop(t *testing.T) {
	log, err := New("info", "")
	if err != nil || log == nil {
		t.Fatalf("New = %v, %v", log, err)
	}
	log.Info("nowhere")
}
