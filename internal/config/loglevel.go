package config

import "go.uber.org/zap/zapcore"

// LogLevel is the verbosity of the service log. Higher values log more.
type LogLevel int

const (
	LevelError LogLevel = iota
	LevelWarning
	LevelInfo
	LevelDebug
)

// ParseLogLevel maps the log_level option to a LogLevel. Matching is case-sensitive;
// "none" is accepted as an alias of "error".
func ParseLogLevel(value string) (LogLevel, error) {
	switch value {
	case "none", "error":
		return LevelError, nil
	case "warning":
		return LevelWarning, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	}
	return LevelError, &Error{Kind: ErrValidation, Key: "log_level", Value: value}
}

func (l LogLevel) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return "error"
	}
}

// ZapLevel returns the minimum zap level that should be emitted for l.
func (l LogLevel) ZapLevel() zapcore.Level {
	switch l {
	case LevelWarning:
		return zapcore.WarnLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelDebug:
		return zapcore.DebugLevel
	default:
		return zapcore.ErrorLevel
	}
}
