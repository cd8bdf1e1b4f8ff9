package application

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
	"golang.org/x/time/rate"

	"scmpc/internal/config"
	"scmpc/internal/pidfile"
)

type countingPoller struct {
	calls atomic.Int32
	err   error
}

func (p *countingPoller) Poll(context.Context) error {
	p.calls.Add(1)
	return p.err
}

func baseTestSettings(t *testing.T) *config.Settings {
	t.Helper()
	s := config.New()
	s.PIDFile = filepath.Join(t.TempDir(), "scmpc.pid")
	s.Fork = false
	return s
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := New(nil, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for missing settings")
	}
	if _, err := New(config.New(), nil); err == nil {
		t.Fatalf("expected error for missing logger")
	}
}

func TestNewUsesProbeByDefault(t *testing.T) {
	app, err := New(config.New(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	probe, ok := app.poller.(*Probe)
	if !ok {
		t.Fatalf("expected default Probe poller, got %T", app.poller)
	}
	if probe.address != "localhost:6600" || probe.timeout != 5*time.Second {
		t.Fatalf("probe does not match settings: %+v", probe)
	}
	if app.limiter.Limit() != rate.Every(10*time.Second) {
		t.Fatalf("unexpected poll rate %v", app.limiter.Limit())
	}
}

func TestNewPollLimiterGuardsNonPositiveInterval(t *testing.T) {
	if got := newPollLimiter(0).Limit(); got != rate.Every(time.Second) {
		t.Fatalf("expected one poll per second, got %v", got)
	}
}

func TestStartStopLifecycle(t *testing.T) {
	settings := baseTestSettings(t)
	poller := &countingPoller{}

	app, err := New(settings, zaptest.NewLogger(t),
		WithPoller(poller),
		WithLimiter(rate.NewLimiter(rate.Inf, 1)),
	)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if err := app.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	pid, err := pidfile.Read(settings.PIDFile)
	if err != nil {
		t.Fatalf("expected pid file while running: %v", err)
	}
	if pid != os.Getpid() {
		t.Fatalf("expected pid %d, got %d", os.Getpid(), pid)
	}

	deadline := time.After(time.Second)
	for poller.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected poller to run, got %d calls", poller.calls.Load())
		case <-time.After(time.Millisecond):
		}
	}

	if err := app.Start(context.Background()); err == nil {
		t.Fatalf("expected error when starting twice")
	}

	app.Stop()
	if _, err := os.Stat(settings.PIDFile); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected pid file to be removed after Stop")
	}
	app.Stop()
}

func TestStartFailsWhenAnotherInstanceRuns(t *testing.T) {
	settings := baseTestSettings(t)
	held, err := pidfile.Acquire(settings.PIDFile)
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	defer held.Release()

	app, err := New(settings, zaptest.NewLogger(t), WithPoller(&countingPoller{}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := app.Start(context.Background()); !errors.Is(err, pidfile.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestRecordLogsTransitions(t *testing.T) {
	app, err := New(baseTestSettings(t), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	app.record(errors.New("refused"))
	if app.state != stateDown {
		t.Fatalf("expected down state")
	}
	app.record(nil)
	if app.state != stateUp {
		t.Fatalf("expected up state")
	}
}

func TestProbe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	probe := NewProbe(config.MPD{Host: "127.0.0.1", Port: port, Timeout: 1})
	if err := probe.Poll(context.Background()); err != nil {
		t.Fatalf("expected reachable listener, got %v", err)
	}

	_ = ln.Close()
	closed := NewProbe(config.MPD{Host: "127.0.0.1", Port: port, Timeout: 1})
	if err := closed.Poll(context.Background()); err == nil {
		t.Fatalf("expected error for closed port %s", strconv.Itoa(port))
	}
}
