package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"scmpc/internal/application"
	"scmpc/internal/config"
	"scmpc/internal/logging"
	"scmpc/internal/pidfile"
)

var signalNotify = signal.Notify

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	settings := config.New()
	defer settings.Clear()

	action, err := settings.Init(args,
		config.WithStdout(stdout),
		config.WithTerminator(pidfile.Terminate),
	)
	if err != nil {
		if errors.Is(err, pidfile.ErrNotRunning) {
			fmt.Fprintln(stderr, "scmpc is not running")
			return 1
		}
		fmt.Fprintln(stderr, err)
		return 1
	}
	if action != config.ActionRun {
		return 0
	}

	logger, err := logging.New(logging.OptionsFor(settings))
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(settings, logger)
	if err != nil {
		logger.Error("failed to initialize application", zap.Error(err))
		return 1
	}

	if err := app.Start(context.Background()); err != nil {
		logger.Error("failed to start scmpc", zap.Error(err))
		return 1
	}

	shutdown(app, logger)
	return 0
}

func shutdown(app *application.App, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down")
	app.Stop()
}
