package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "typerec.log")
	logger, err := New(path, "info")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Infow("session started", "session", "abc")
	logger.Debugw("hidden")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"session started"`) || !strings.Contains(out, `"session":"abc"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line should be filtered at info level")
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New("", "info"); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := New(filepath.Join(t.TempDir(), "x.log"), "loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestGuardRecoversPanic(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core).Sugar()

	if ok := Guard(logger, "timeline", func() { panic("boom") }); ok {
		t.Fatalf("expected guard to report failure")
	}
	if logs.FilterMessage("capture path failed").Len() != 1 {
		t.Fatalf("expected one failure line, got %d", logs.Len())
	}
	if ok := Guard(logger, "typing", func() {}); !ok {
		t.Fatalf("expected guard to report success")
	}
}
