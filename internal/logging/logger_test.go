package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHelpersAreNoOpsBeforeInit(t *testing.T) {
	Logger = nil
	Info("ignored")
	Debug("ignored")
	Warn("ignored")
	Error("ignored")
	if WithPrefix("x") != nil {
		t.Error("WithPrefix should be nil before Init")
	}
}

func TestSetOutputRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := SetOutput(&buf, "warn"); err != nil {
		t.Fatalf("SetOutput: %v", err)
	}
	defer func() { Logger = nil }()

	Info("quiet message")
	Warn("loud message", "filter", "unread")

	out := buf.String()
	if strings.Contains(out, "quiet message") {
		t.Errorf("info message written at warn level: %q", out)
	}
	if !strings.Contains(out, "loud message") || !strings.Contains(out, "filter=unread") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestSetOutputRejectsUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := SetOutput(&buf, "chatty"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "notifeed.log")
	if err := Init(path, "debug"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Debug("hello from test")
	Close()
	Logger = nil

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("log file missing message:\n%s", data)
	}
}
