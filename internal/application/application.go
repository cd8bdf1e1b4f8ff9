package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"scmpc/internal/config"
	"scmpc/internal/pidfile"
)

// Poller checks the music player once per poll interval.
type Poller interface {
	Poll(ctx context.Context) error
}

// Option configures the behaviour of New.
type Option func(*App)

// WithPoller overrides the default MPD reachability probe.
func WithPoller(p Poller) Option {
	return func(a *App) {
		a.poller = p
	}
}

// WithLimiter overrides the poll pacing (primarily for tests).
func WithLimiter(l *rate.Limiter) Option {
	return func(a *App) {
		a.limiter = l
	}
}

type pollState int

const (
	stateUnknown pollState = iota
	stateUp
	stateDown
)

// App encapsulates the running service and the resources it owns.
type App struct {
	settings *config.Settings
	logger   *zap.Logger
	poller   Poller
	limiter  *rate.Limiter

	pidFile *pidfile.File
	cancel  context.CancelFunc
	done    chan struct{}
	state   pollState
}

// New initializes the application from resolved settings.
func New(settings *config.Settings, logger *zap.Logger, opts ...Option) (*App, error) {
	if settings == nil || logger == nil {
		return nil, errors.New("application requires settings and logger")
	}

	a := &App{
		settings: settings,
		logger:   logger,
		poller:   NewProbe(settings.MPD),
		limiter:  newPollLimiter(settings.MPD.PollInterval()),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func newPollLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		interval = time.Second
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Start takes the pid file and launches the poll loop in a goroutine.
func (a *App) Start(ctx context.Context) error {
	if a.cancel != nil {
		return errors.New("application already started")
	}

	pf, err := pidfile.Acquire(a.settings.PIDFile)
	if err != nil {
		return fmt.Errorf("take pid file: %w", err)
	}
	a.pidFile = pf

	a.logger.Debug("configuration resolved", a.settings.Fields()...)
	if !a.settings.Scrobbler.HasCredentials() {
		a.logger.Info("no username or password specified, not connecting to Audioscrobbler")
	}

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.done = make(chan struct{})
	go a.run(ctx)

	a.logger.Info("scmpc started",
		zap.String("mpd", a.settings.MPD.Address()),
		zap.Int("pid", os.Getpid()),
		zap.Bool("fork", a.settings.Fork),
	)
	return nil
}

// Stop cancels the poll loop and releases the pid file. It is safe to call on
// an application that was never started.
func (a *App) Stop() {
	if a.cancel == nil {
		return
	}
	a.cancel()
	<-a.done
	a.cancel = nil

	if err := a.pidFile.Release(); err != nil {
		a.logger.Warn("failed to release pid file", zap.Error(err))
	}
	a.logger.Info("scmpc stopped")
}

func (a *App) run(ctx context.Context) {
	defer close(a.done)
	for {
		if err := a.limiter.Wait(ctx); err != nil {
			return
		}
		a.record(a.poller.Poll(ctx))
	}
}

// record logs transitions only, so a steady state does not flood the log.
func (a *App) record(err error) {
	switch {
	case err != nil && a.state != stateDown:
		a.state = stateDown
		a.logger.Warn("failed to connect to MPD", zap.String("addr", a.settings.MPD.Address()), zap.Error(err))
	case err == nil && a.state != stateUp:
		a.state = stateUp
		a.logger.Info("connected to MPD", zap.String("addr", a.settings.MPD.Address()))
	}
}
