package logging

import (
	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

// SentryHook forwards matching logrus entries to sentry.
type SentryHook struct {
	levels []log.Level
}

func NewSentryHook(levels []log.Level) *SentryHook {
	return &SentryHook{levels: levels}
}

func (h *SentryHook) Levels() []log.Level {
	return h.levels
}

func (h *SentryHook) Fire(entry *log.Entry) error {
	event := sentry.NewEvent()
	event.Message = entry.Message
	event.Level = sentryLevel(entry.Level)
	event.Timestamp = entry.Time

	for key, value := range entry.Data {
		event.Extra[key] = value
	}

	sentry.CaptureEvent(event)
	return nil
}

func sentryLevel(level log.Level) sentry.Level {
	switch level {
	case log.PanicLevel, log.FatalLevel:
		return sentry.LevelFatal
	case log.ErrorLevel:
		return sentry.LevelError
	case log.WarnLevel:
		return sentry.LevelWarning
	case log.DebugLevel, log.TraceLevel:
		return sentry.LevelDebug
	default:
		return sentry.LevelInfo
	}
}
