package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/rediskit"
	kitlogrus "github.com/unkn0wn-root/rediskit/log/logrus"
)

var log *logrus.Logger

// LogLevel represents the logging level
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// Init initializes the logger with the specified level. Output goes to
// stderr so command results on stdout stay machine-readable.
func Init(level LogLevel) {
	InitWithOutput(level, os.Stderr)
}

func InitWithOutput(level LogLevel, w io.Writer) {
	log = logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetLevel(ParseLevel(string(level)))
}

// ParseLevel maps a flag value to a logrus level; unknown values mean warn.
func ParseLevel(s string) logrus.Level {
	switch LogLevel(strings.ToLower(s)) {
	case DebugLevel:
		return logrus.DebugLevel
	case InfoLevel:
		return logrus.InfoLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	default:
		return logrus.WarnLevel
	}
}

// Get returns the logger instance
func Get() *logrus.Logger {
	if log == nil {
		Init(WarnLevel)
	}
	return log
}

// Kit adapts the process logger for rediskit.Options.
func Kit() rediskit.Logger {
	return kitlogrus.New(Get())
}

func Debugf(format string, args ...interface{}) { Get().Debugf(format, args...) }
func Infof(format string, args ...interface{})  { Get().Infof(format, args...) }
func Warnf(format string, args ...interface{})  { Get().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { Get().Errorf(format, args...) }

// WithField returns a logger with a field
func WithField(key string, value interface{}) *logrus.Entry {
	return Get().WithField(key, value)
}
