package config

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	defaultLogFile       = "/var/log/scmpc.log"
	defaultPIDFile       = "/var/run/scmpc.pid"
	defaultCacheFile     = "/var/lib/scmpc/scmpc.cache"
	defaultQueueLength   = 500
	defaultCacheInterval = 10
	defaultMPDHost       = "localhost"
	defaultMPDPort       = 6600
	defaultMPDTimeout    = 5
	defaultMPDInterval   = 10
)

// Settings is the resolved runtime configuration.
// Precedence: Environment variables > CLI flags > Config file > Defaults
type Settings struct {
	MPD       MPD
	Scrobbler Scrobbler

	LogLevel      LogLevel
	LogFile       string
	PIDFile       string
	CacheFile     string
	QueueLength   int
	CacheInterval int
	Fork          bool

	// ConfigFile is the config file that was actually parsed.
	ConfigFile string
}

// MPD holds the music player daemon connection settings.
type MPD struct {
	Host     string
	Port     int
	Timeout  int // seconds
	Interval int // seconds
	Password string
}

// Scrobbler holds the Audioscrobbler account settings.
type Scrobbler struct {
	Username     string
	Password     string
	PasswordHash string
}

// Action tells the caller what to do once Init returns without error.
type Action int

const (
	// ActionRun means settings are resolved and services may start.
	ActionRun Action = iota
	// ActionVersion means version text was printed and the process should exit.
	ActionVersion
	// ActionKill means the running instance was terminated and the process should exit.
	ActionKill
	// ActionHelp means usage text was printed and the process should exit.
	ActionHelp
)

// Terminator stops the instance recorded in pidFile.
type Terminator func(pidFile string) error

// Option configures a call to Init.
type Option func(*loader)

// WithStdout sets where --version output goes.
func WithStdout(w io.Writer) Option {
	return func(l *loader) {
		l.stdout = w
	}
}

// WithLookupEnv overrides the environment lookup (primarily for tests).
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(l *loader) {
		l.lookupEnv = lookup
	}
}

// WithHomeDir overrides the fallback used when HOME is unset.
func WithHomeDir(homeDir func() (string, error)) Option {
	return func(l *loader) {
		l.homeDir = homeDir
	}
}

// WithSysConfDir overrides the directory holding the system-wide scmpc.conf.
func WithSysConfDir(dir string) Option {
	return func(l *loader) {
		l.sysConfDir = dir
	}
}

// WithTerminator sets the routine invoked for --kill.
func WithTerminator(t Terminator) Option {
	return func(l *loader) {
		l.terminate = t
	}
}

// WithLogger enables debug output about skipped config candidates.
func WithLogger(logger *zap.Logger) Option {
	return func(l *loader) {
		l.logger = logger
	}
}

type loader struct {
	stdout     io.Writer
	lookupEnv  func(string) (string, bool)
	homeDir    func() (string, error)
	sysConfDir string
	terminate  Terminator
	logger     *zap.Logger
}

func newLoader(opts []Option) *loader {
	l := &loader{
		stdout:     os.Stdout,
		lookupEnv:  os.LookupEnv,
		homeDir:    os.UserHomeDir,
		sysConfDir: SysConfDir,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// New returns Settings populated with compiled-in defaults.
func New() *Settings {
	s := &Settings{}
	s.reset()
	return s
}

func (s *Settings) reset() {
	*s = Settings{
		MPD: MPD{
			Host:     defaultMPDHost,
			Port:     defaultMPDPort,
			Timeout:  defaultMPDTimeout,
			Interval: defaultMPDInterval,
		},
		LogLevel:      LevelError,
		LogFile:       defaultLogFile,
		PIDFile:       defaultPIDFile,
		CacheFile:     defaultCacheFile,
		QueueLength:   defaultQueueLength,
		CacheInterval: defaultCacheInterval,
		Fork:          true,
	}
}

// Init resolves s from the command line, a config file and the environment, in that
// order of application. args excludes the program name. On error s keeps whatever the
// last successful layer produced and no service may be started.
func (s *Settings) Init(args []string, opts ...Option) (Action, error) {
	l := newLoader(opts)

	flags, err := parseFlags(args, l.stdout)
	if err != nil {
		return ActionRun, err
	}

	if flags.help {
		return ActionHelp, nil
	}

	if flags.version {
		printVersion(l.stdout)
		return ActionVersion, nil
	}

	if err := l.loadFile(s, flags.configFile); err != nil {
		return ActionRun, err
	}

	if err := flags.apply(s); err != nil {
		return ActionRun, err
	}

	if flags.kill {
		if err := l.kill(s.PIDFile); err != nil {
			return ActionKill, err
		}
		return ActionKill, nil
	}

	l.applyEnv(s)
	return ActionRun, nil
}

// Clear releases every value held by s. Call it once at shutdown.
func (s *Settings) Clear() {
	*s = Settings{}
}

// Fields returns the settings as log fields with secrets redacted.
func (s *Settings) Fields() []zap.Field {
	return []zap.Field{
		zap.String("config_file", s.ConfigFile),
		zap.Stringer("log_level", s.LogLevel),
		zap.String("log_file", s.LogFile),
		zap.String("pid_file", s.PIDFile),
		zap.String("cache_file", s.CacheFile),
		zap.Int("queue_length", s.QueueLength),
		zap.Int("cache_interval", s.CacheInterval),
		zap.Bool("fork", s.Fork),
		zap.String("mpd_address", s.MPD.Address()),
		zap.Int("mpd_timeout", s.MPD.Timeout),
		zap.Int("mpd_interval", s.MPD.Interval),
		zap.Bool("mpd_password_set", s.MPD.Password != ""),
		zap.String("scrobbler_username", s.Scrobbler.Username),
		zap.Bool("scrobbler_credentials", s.Scrobbler.HasCredentials()),
	}
}

// Address returns the host:port pair used to reach MPD.
func (m MPD) Address() string {
	return net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
}

// DialTimeout returns the connection timeout as a duration.
func (m MPD) DialTimeout() time.Duration {
	return time.Duration(m.Timeout) * time.Second
}

// PollInterval returns the delay between two status checks.
func (m MPD) PollInterval() time.Duration {
	return time.Duration(m.Interval) * time.Second
}

// HasCredentials reports whether enough account data is configured to authenticate.
func (a Scrobbler) HasCredentials() bool {
	return a.Username != "" && (a.Password != "" || a.PasswordHash != "")
}

// AuthHash returns the configured password hash, or the MD5 hex digest of the
// plain password when no hash is set.
func (a Scrobbler) AuthHash() string {
	if a.PasswordHash != "" {
		return a.PasswordHash
	}
	sum := md5.Sum([]byte(a.Password))
	return hex.EncodeToString(sum[:])
}
