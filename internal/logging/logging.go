package logging

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"scmpc/internal/config"
)

const timeLayout = "2006-01-02 15:04:05"

// Options controls where and how much the service logs.
type Options struct {
	Level zapcore.Level
	// File receives JSON lines when the service runs in the background.
	File string
	// Foreground sends output to stdout instead of File.
	Foreground bool
}

// OptionsFor derives logging options from resolved settings.
func OptionsFor(s *config.Settings) Options {
	return Options{
		Level:      s.LogLevel.ZapLevel(),
		File:       s.LogFile,
		Foreground: !s.Fork,
	}
}

// New creates a structured logger. In the foreground it writes to stdout, using
// the console encoder when stdout is a terminal. Otherwise it appends JSON to the
// log file and falls back to stdout if the file cannot be opened.
func New(opts Options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(opts.Level)
	cfg.Encoding = "json"
	cfg.Sampling = nil
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
	cfg.EncoderConfig.StacktraceKey = "stacktrace"
	cfg.DisableStacktrace = false
	cfg.ErrorOutputPaths = []string{"stderr"}

	if opts.Foreground || opts.File == "" {
		cfg.OutputPaths = []string{"stdout"}
		if isTerminal(os.Stdout) {
			cfg.Encoding = "console"
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		return build(cfg)
	}

	cfg.OutputPaths = []string{opts.File}
	logger, err := cfg.Build()
	if err == nil {
		return logger, nil
	}

	cfg.OutputPaths = []string{"stdout"}
	logger, fallbackErr := build(cfg)
	if fallbackErr != nil {
		return nil, fallbackErr
	}
	logger.Warn("unable to open log file, logging to stdout", zap.String("path", opts.File), zap.Error(err))
	return logger, nil
}

func build(cfg zap.Config) (*zap.Logger, error) {
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
