package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scmpc.conf")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRunVersion(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.WriteFile(filepath.Join(home, ".scmpcrc"), []byte("broken [toml"), 0o644); err != nil {
		t.Fatalf("write rc: %v", err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-v"}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "An Audioscrobbler client for MPD.") {
		t.Fatalf("unexpected version output %q", stdout.String())
	}
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--help"}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "--pid-file") {
		t.Fatalf("expected usage on stdout, got %q", stdout.String())
	}
}

func TestRunFailures(t *testing.T) {
	cfg := writeConfig(t, "")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"--bogus"}, "unknown long flag"},
		{"conflicting flags", []string{"-f", cfg, "--debug", "--quiet"}, "does not make any sense"},
		{"missing config", []string{"-f", filepath.Join(t.TempDir(), "none.conf")}, "couldn't find any valid configuration files"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tc.args, &stdout, &stderr); code != 1 {
				t.Fatalf("expected exit 1, got %d", code)
			}
			if !strings.Contains(stderr.String(), tc.want) {
				t.Fatalf("expected %q in stderr, got %q", tc.want, stderr.String())
			}
		})
	}
}

func TestRunKillWithoutRunningInstance(t *testing.T) {
	pidPath := filepath.Join(t.TempDir(), "scmpc.pid")
	cfg := writeConfig(t, fmt.Sprintf("pid_file = %q\n", pidPath))

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-f", cfg, "-k"}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "not running") {
		t.Fatalf("unexpected stderr %q", stderr.String())
	}
}
