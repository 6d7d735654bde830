// Package internal contains test helpers shared across dlsim's packages.
package internal

import "github.com/netlab/dlsim"

// NullLogger is a [dlsim.Logger] that discards everything. Tests use it
// in place of a real structured logger.
type NullLogger struct{}

// Debug implements dlsim.Logger.
func (nl *NullLogger) Debug(message string) {
	// nothing
}

// Debugf implements dlsim.Logger.
func (nl *NullLogger) Debugf(format string, v ...any) {
	// nothing
}

// Info implements dlsim.Logger.
func (nl *NullLogger) Info(message string) {
	// nothing
}

// Infof implements dlsim.Logger.
func (nl *NullLogger) Infof(format string, v ...any) {
	// nothing
}

// Warn implements dlsim.Logger.
func (nl *NullLogger) Warn(message string) {
	// nothing
}

// Warnf implements dlsim.Logger.
func (nl *NullLogger) Warnf(format string, v ...any) {
	// nothing
}

var _ dlsim.Logger = &NullLogger{}
