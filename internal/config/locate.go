package config

import (
	"path/filepath"
	"strings"
)

// SysConfDir is the directory searched for the system-wide scmpc.conf.
var SysConfDir = "/etc"

// candidates lists the config files to try, in order. An explicit path replaces
// the well-known locations entirely.
func (l *loader) candidates(explicit string) []string {
	if explicit != "" {
		return []string{explicit}
	}

	var paths []string
	if home := l.home(); home != "" {
		paths = append(paths,
			filepath.Join(home, ".scmpcrc"),
			filepath.Join(home, ".scmpc", "scmpc.conf"),
		)
	}
	return append(paths, filepath.Join(l.sysConfDir, "scmpc.conf"))
}

// home prefers $HOME and falls back to the platform lookup.
func (l *loader) home() string {
	if home, ok := l.lookupEnv("HOME"); ok && strings.TrimSpace(home) != "" {
		return home
	}
	if l.homeDir == nil {
		return ""
	}
	home, err := l.homeDir()
	if err != nil {
		return ""
	}
	return home
}

// expandTilde replaces a leading "~" with the user's home directory.
func (l *loader) expandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home := l.home()
	if home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
