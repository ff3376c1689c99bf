package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitRejectsUnknownLevel(t *testing.T) {
	if err := Init("loud", ""); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestInitWritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dxanalemma.log")
	if err := Init("info", path); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}

	Infof("wrote %d suns", 1511)
	Debugw("hidden at info level", "hour", 3)
	Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	out := string(raw)
	if !strings.Contains(out, `"msg":"wrote 1511 suns"`) {
		t.Errorf("info entry missing from log file:\n%s", out)
	}
	if strings.Contains(out, "hidden at info level") {
		t.Errorf("debug entry written at info level:\n%s", out)
	}
}

func TestGetSugaredLoggerFallback(t *testing.T) {
	log = nil
	if GetSugaredLogger() == nil {
		t.Fatal("expected a fallback logger")
	}
}
