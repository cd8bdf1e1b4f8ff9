// Package application wires resolved settings into the running service.
// It takes the pid file, logs the effective configuration and paces the
// MPD poll loop, keeping the main package focused on CLI handling and
// shutdown.
package application
