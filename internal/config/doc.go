// Package config resolves scmpc's settings from built-in defaults, a config
// file, command-line flags and environment variables, with precedence:
// Environment variables > CLI flags > Config file > Defaults. Each layer is
// validated in full before any of its values are committed.
//
// Config files are TOML unless the name ends in .yaml or .yml. Files written
// for the old libconfuse syntax must be converted: quote string values
// (log_level = "debug") and turn "mpd { ... }" blocks into [mpd] and
// [audioscrobbler] tables. Anything else is rejected as ErrSyntax.
//
// Boolean flags also accept a --no- prefix (--no-foreground, --no-debug),
// which leaves the setting at its file or default value. --help prints usage
// and Init returns ActionHelp.
package config
