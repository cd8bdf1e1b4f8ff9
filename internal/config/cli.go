package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/alecthomas/kingpin/v2"
)

// Version is the program version reported by --version.
var Version = "0.5.0"

// Path arguments may legitimately start with '@'.
func init() {
	kingpin.EnableFileExpansion = false
}

// cliFlags holds the parsed command line. Everything except configFile and
// version is applied after the config file has been read.
type cliFlags struct {
	debug      bool
	kill       bool
	quiet      bool
	configFile string
	pidFile    string
	version    bool
	foreground bool
	help       bool
}

func parseFlags(args []string, out io.Writer) (*cliFlags, error) {
	app := kingpin.New("scmpc", "An Audioscrobbler client for MPD.")
	app.UsageWriter(out)
	app.ErrorWriter(out)

	flags := &cliFlags{}
	// --help and friends print and then terminate; report that as an action
	// instead of exiting from inside Init.
	app.Terminate(func(int) {
		flags.help = true
	})

	app.Flag("debug", "Log everything.").Short('d').BoolVar(&flags.debug)
	app.Flag("kill", "Kill the running scmpc.").Short('k').BoolVar(&flags.kill)
	app.Flag("quiet", "Disable logging.").Short('q').BoolVar(&flags.quiet)
	app.Flag("config-file", "The location of the configuration file.").Short('f').PlaceHolder("<config_file>").StringVar(&flags.configFile)
	app.Flag("pid-file", "The location of the pid file.").Short('i').PlaceHolder("<pid_file>").StringVar(&flags.pidFile)
	app.Flag("version", "Print the program version.").Short('v').BoolVar(&flags.version)
	app.Flag("foreground", "Run the program in the foreground rather than as a daemon.").Short('n').BoolVar(&flags.foreground)

	_, err := app.Parse(args)
	if flags.help {
		return flags, nil
	}
	if err != nil {
		return nil, &Error{Kind: ErrCLIParse, Err: err}
	}
	return flags, nil
}

// apply commits the flags that must override the config file.
func (f *cliFlags) apply(s *Settings) error {
	if f.quiet && f.debug {
		return &Error{Kind: ErrConflictingFlags}
	}

	if f.pidFile != "" {
		s.PIDFile = f.pidFile
	}
	switch {
	case f.quiet:
		s.LogLevel = LevelError
	case f.debug:
		s.LogLevel = LevelDebug
	}
	if f.foreground {
		s.Fork = false
	}
	return nil
}

func (l *loader) kill(pidFile string) error {
	if l.terminate == nil {
		return errors.New("no terminator configured")
	}
	if err := l.terminate(pidFile); err != nil {
		return fmt.Errorf("kill running instance: %w", err)
	}
	return nil
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "scmpc %s\n", Version)
	fmt.Fprintln(w, "An Audioscrobbler client for MPD.")
	fmt.Fprintln(w, "Copyright 2009-2013 Christoph Mende <mende.christoph@gmail.com>")
	fmt.Fprintln(w, "Based on Jonathan Coome's work on scmpc")
}
