package logger

import corelogger "github.com/kilianp07/tripduration/core/logger"

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger discards every message.
type NopLogger = corelogger.NopLogger

// New returns a Logger tagged with the given component. The output format is
// selected through the APP_ENV variable and the level through LOG_LEVEL.
func New(component string) Logger {
	return NewZerologLogger(component)
}
