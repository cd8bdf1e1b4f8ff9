package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"scmpc/internal/config"
)

func TestNewForeground(t *testing.T) {
	logger, err := New(Options{Level: zapcore.InfoLevel, Foreground: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger == nil {
		t.Fatalf("expected logger instance")
	}
	_ = logger.Sync()
}

func TestNewWritesToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scmpc.log")

	logger, err := New(Options{Level: zapcore.InfoLevel, File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Debug("hidden message")
	logger.Info("visible message")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "visible message") {
		t.Fatalf("expected info message in log file, got %q", out)
	}
	if strings.Contains(out, "hidden message") {
		t.Fatalf("debug message must be filtered at info level")
	}
	if !strings.Contains(out, `"timestamp"`) {
		t.Fatalf("expected JSON timestamp key, got %q", out)
	}
}

func TestNewFallsBackWhenFileUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "scmpc.log")

	logger, err := New(Options{Level: zapcore.ErrorLevel, File: path})
	if err != nil {
		t.Fatalf("expected fallback logger, got error: %v", err)
	}
	if logger == nil {
		t.Fatalf("expected logger instance")
	}
}

func TestOptionsFor(t *testing.T) {
	s := config.New()
	s.LogLevel = config.LevelDebug
	s.LogFile = "/tmp/scmpc.log"
	s.Fork = false

	opts := OptionsFor(s)
	if opts.Level != zapcore.DebugLevel || opts.File != "/tmp/scmpc.log" || !opts.Foreground {
		t.Fatalf("unexpected options: %+v", opts)
	}
}
