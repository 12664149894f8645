// Package logging is the zerolog setup shared by the doshii SDK and CLI.
//
// The SDK is quiet unless told otherwise: the default logger reads the
// LOG_* environment (see FromEnv) and only passes warnings and errors.
// Components log through a child tagged with their name, and the realtime
// subsystem adds its session, subscriber and event fields with the helpers
// below so every line carries the same keys.
//
//	log := logging.Component(nil, "realtime")
//	logging.Subscriber(log, "lq3x9k-1", "order_created").
//		Error().Msg("Subscriber callback failed")
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Field names shared by SDK log lines.
const (
	FieldComponent  = "component"
	FieldSession    = "session_id"
	FieldSubscriber = "subscriber_id"
	FieldEvent      = "event"
	FieldLocation   = "location_id"
	FieldState      = "state"
)

var defaultLogger = NewLoggerFromConfig(FromEnv())

// Default returns the logger used when a caller supplies none.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the default logger and zerolog's global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// Component returns a child of logger tagged with a component name.
// A nil logger falls back to the default.
func Component(logger *zerolog.Logger, name string) *zerolog.Logger {
	return child(logger, FieldComponent, name)
}

// Session tags logger with the id of one realtime socket session.
func Session(logger *zerolog.Logger, id string) *zerolog.Logger {
	return child(logger, FieldSession, id)
}

// Subscriber tags logger with a subscriber id and, when non-empty, the
// event being delivered to it.
func Subscriber(logger *zerolog.Logger, id, event string) *zerolog.Logger {
	l := child(logger, FieldSubscriber, id)
	if event == "" {
		return l
	}
	return child(l, FieldEvent, event)
}

func child(logger *zerolog.Logger, key, value string) *zerolog.Logger {
	if logger == nil {
		logger = Default()
	}
	l := logger.With().Str(key, value).Logger()
	return &l
}
