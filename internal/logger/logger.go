// Package logger exposes one process-wide structured logger. Every layer
// (engine, transport, handlers) logs through the same instance so output
// ordering reflects actual event ordering.
package logger

import (
	"sync"
)

// Level names accepted by Get. They mirror zap's levels; anything else
// falls back to debug so misconfiguration is loud rather than silent.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide logger. The first caller fixes the level;
// later calls get the same instance regardless of the level they pass.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(level)
	})
	return globalLogger
}
