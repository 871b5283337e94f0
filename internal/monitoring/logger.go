// Package monitoring provides the package-level diagnostic loggers of the tracker.
package monitoring

import "log"

// Logf logs rare tracker events such as configuration loads and weight resets.
// It writes through log.Printf unless replaced with SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// Debugf logs per-tick tracker internals. It is muted by default.
var Debugf func(format string, v ...interface{}) = func(string, ...interface{}) {}

// SetLogger replaces Logf. Passing nil mutes it.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetDebugLogger replaces the debug logger. Passing nil mutes it.
func SetDebugLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Debugf = func(string, ...interface{}) {}
		return
	}
	Debugf = f
}
