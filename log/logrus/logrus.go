package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/rediskit"
)

var _ rediskit.Logger = Logger{}

// Logger adapts a logrus entry. An "err" field holding an error is attached
// with WithError so hooks and formatters see it as logrus.ErrorKey.
type Logger struct{ E *logrus.Entry }

// New wraps l with a component field.
func New(l *logrus.Logger) Logger {
	return Logger{E: l.WithField("component", "rediskit")}
}

func (l Logger) Debug(msg string, f rediskit.Fields) { l.entry(f).Debug(msg) }
func (l Logger) Info(msg string, f rediskit.Fields)  { l.entry(f).Info(msg) }
func (l Logger) Warn(msg string, f rediskit.Fields)  { l.entry(f).Warn(msg) }
func (l Logger) Error(msg string, f rediskit.Fields) { l.entry(f).Error(msg) }

func (l Logger) entry(f rediskit.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	lf := make(logrus.Fields, len(f))
	var err error
	for k, v := range f {
		if e, ok := v.(error); ok && k == "err" {
			err = e
			continue
		}
		lf[k] = v
	}
	e := l.E.WithFields(lf)
	if err != nil {
		e = e.WithError(err)
	}
	return e
}
