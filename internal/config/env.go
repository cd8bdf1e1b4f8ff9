package config

import "strings"

const (
	envMPDHost = "MPD_HOST"
	envMPDPort = "MPD_PORT"
)

// applyEnv applies the MPD client environment variables. A new host discards
// any configured password.
func (l *loader) applyEnv(s *Settings) {
	if host, ok := l.lookupEnv(envMPDHost); ok {
		s.MPD.Host = host
		s.MPD.Password = ""
	}
	if port, ok := l.lookupEnv(envMPDPort); ok {
		s.MPD.Port = parsePort(port)
	}
}

// parsePort reads the leading decimal digits of raw. Input without digits and
// negative values yield 0.
func parsePort(raw string) int {
	raw = strings.TrimLeft(raw, " \t\n\v\f\r")
	negative := false
	if raw != "" && (raw[0] == '+' || raw[0] == '-') {
		negative = raw[0] == '-'
		raw = raw[1:]
	}

	const maxPort = 1<<31 - 1
	value := 0
	for i := 0; i < len(raw) && raw[i] >= '0' && raw[i] <= '9'; i++ {
		value = value*10 + int(raw[i]-'0')
		if value > maxPort {
			value = maxPort
		}
	}
	if negative {
		return 0
	}
	return value
}
