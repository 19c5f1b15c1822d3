package internal

import (
	"github.com/sirupsen/logrus"
)

type Importance string

const (
	Info    Importance = "info"
	Warning Importance = "warning"
	Error   Importance = "error"
	Raw     Importance = "raw"
)

type LogEvent struct {
	Importance Importance
	Feature    string
	StationId  string
	Text       string
	Err        error
}

// Logger feeds events through a channel so callers on the engine loop never
// block on the sink.
type Logger struct {
	log       *logrus.Logger
	debugMode bool
	writer    chan *LogEvent
}

func NewLogger() *Logger {
	logger := &Logger{
		log:    logrus.StandardLogger(),
		writer: make(chan *LogEvent, 100),
	}
	go logger.startWriter()
	return logger
}

func (l *Logger) SetDebugMode(debugMode bool) {
	l.debugMode = debugMode
	if debugMode {
		l.log.SetLevel(logrus.DebugLevel)
	}
}

func (l *Logger) startWriter() {
	for event := range l.writer {
		entry := l.log.WithField("feature", event.Feature)
		if event.StationId != "" {
			entry = entry.WithField("station", event.StationId)
		}
		switch event.Importance {
		case Warning:
			entry.Warn(event.Text)
		case Error:
			entry.WithError(event.Err).Error(event.Text)
		case Raw:
			entry.Debug(event.Text)
		default:
			entry.Info(event.Text)
		}
	}
}

func (l *Logger) logEvent(event *LogEvent) {
	if event.StationId == "" {
		event.StationId = "*"
	}
	l.writer <- event
}

func (l *Logger) FeatureEvent(feature, id, text string) {
	l.logEvent(&LogEvent{Importance: Info, Feature: feature, StationId: id, Text: text})
}

func (l *Logger) RawDataEvent(direction, data string) {
	if l.debugMode {
		l.logEvent(&LogEvent{Importance: Raw, Feature: "raw", Text: direction + ": " + data})
	}
}

func (l *Logger) Debug(text string) {
	l.logEvent(&LogEvent{Importance: Info, Feature: "info", Text: text})
}

func (l *Logger) Warn(text string) {
	l.logEvent(&LogEvent{Importance: Warning, Feature: "warning", Text: text})
}

func (l *Logger) Error(text string, err error) {
	l.logEvent(&LogEvent{Importance: Error, Feature: "error", Text: text, Err: err})
}
