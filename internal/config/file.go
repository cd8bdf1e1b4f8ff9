package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const rootSection = "root"

// fileConfig represents the config file structure. It is seeded with defaults
// before decoding so absent keys keep their compiled-in values.
type fileConfig struct {
	LogLevel      string        `toml:"log_level" yaml:"log_level"`
	LogFile       string        `toml:"log_file" yaml:"log_file"`
	PIDFile       string        `toml:"pid_file" yaml:"pid_file"`
	CacheFile     string        `toml:"cache_file" yaml:"cache_file"`
	QueueLength   int64         `toml:"queue_length" yaml:"queue_length"`
	CacheInterval int64         `toml:"cache_interval" yaml:"cache_interval"`
	MPD           fileMPD       `toml:"mpd" yaml:"mpd"`
	Scrobbler     fileScrobbler `toml:"audioscrobbler" yaml:"audioscrobbler"`
}

// fileMPD represents the [mpd] section.
type fileMPD struct {
	Host     string `toml:"host" yaml:"host"`
	Port     int64  `toml:"port" yaml:"port"`
	Timeout  int64  `toml:"timeout" yaml:"timeout"`
	Interval int64  `toml:"interval" yaml:"interval"`
	Password string `toml:"password" yaml:"password"`
}

// fileScrobbler represents the [audioscrobbler] section.
type fileScrobbler struct {
	Username     string `toml:"username" yaml:"username"`
	Password     string `toml:"password" yaml:"password"`
	PasswordHash string `toml:"password_hash" yaml:"password_hash"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		LogLevel:      "error",
		LogFile:       defaultLogFile,
		PIDFile:       defaultPIDFile,
		CacheFile:     defaultCacheFile,
		QueueLength:   defaultQueueLength,
		CacheInterval: defaultCacheInterval,
		MPD: fileMPD{
			Host:     defaultMPDHost,
			Port:     defaultMPDPort,
			Timeout:  defaultMPDTimeout,
			Interval: defaultMPDInterval,
		},
	}
}

// loadFile parses the first usable candidate and commits it to s. Missing
// candidates are skipped; any other failure stops the search.
func (l *loader) loadFile(s *Settings, explicit string) error {
	paths := l.candidates(explicit)
	for _, path := range paths {
		cfg, err := readConfigFile(path)
		if errors.Is(err, ErrCandidateNotFound) {
			l.logger.Debug("config candidate skipped", zap.String("path", path), zap.Error(err))
			continue
		}
		if err != nil {
			return err
		}

		level, err := cfg.validate()
		if err != nil {
			var cfgErr *Error
			if errors.As(err, &cfgErr) {
				cfgErr.Path = path
			}
			return err
		}

		l.commit(s, cfg, level, path)
		l.logger.Debug("config file loaded", zap.String("path", path))
		return nil
	}

	return &Error{Kind: ErrNoConfig, Err: fmt.Errorf("tried %s", strings.Join(paths, ", "))}
}

// readConfigFile decodes path as YAML when it has a .yaml or .yml extension and
// as TOML otherwise.
func readConfigFile(path string) (fileConfig, error) {
	cfg := defaultFileConfig()

	file, err := os.Open(path)
	if err != nil {
		return cfg, &Error{Kind: ErrCandidateNotFound, Path: path, Err: err}
	}
	defer file.Close()

	if info, err := file.Stat(); err != nil || info.IsDir() {
		return cfg, &Error{Kind: ErrCandidateNotFound, Path: path, Err: errors.New("not a regular file")}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(file)
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, &Error{Kind: ErrSyntax, Path: path, Err: err}
		}
	default:
		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return cfg, &Error{Kind: ErrSyntax, Path: path, Err: err}
		}
	}

	return cfg, nil
}

// validate checks ranges and decodes log_level.
func (c fileConfig) validate() (LogLevel, error) {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return LevelError, err
	}

	checks := []struct {
		section string
		key     string
		value   int64
	}{
		{rootSection, "queue_length", c.QueueLength},
		{rootSection, "cache_interval", c.CacheInterval},
		{"mpd", "port", c.MPD.Port},
		{"mpd", "timeout", c.MPD.Timeout},
	}
	for _, check := range checks {
		if check.value < 0 {
			return LevelError, &Error{
				Kind:    ErrValidation,
				Section: check.section,
				Key:     check.key,
				Value:   fmt.Sprint(check.value),
			}
		}
	}

	return level, nil
}

// commit overwrites every file-backed field of s.
func (l *loader) commit(s *Settings, c fileConfig, level LogLevel, path string) {
	s.LogLevel = level
	s.LogFile = l.expandTilde(c.LogFile)
	s.PIDFile = l.expandTilde(c.PIDFile)
	s.CacheFile = l.expandTilde(c.CacheFile)
	s.QueueLength = int(c.QueueLength)
	s.CacheInterval = int(c.CacheInterval)
	s.MPD = MPD{
		Host:     c.MPD.Host,
		Port:     int(c.MPD.Port),
		Timeout:  int(c.MPD.Timeout),
		Interval: int(c.MPD.Interval),
		Password: c.MPD.Password,
	}
	s.Scrobbler = Scrobbler{
		Username:     c.Scrobbler.Username,
		Password:     c.Scrobbler.Password,
		PasswordHash: c.Scrobbler.PasswordHash,
	}
	s.Fork = true
	s.ConfigFile = path
}
