package zap

import (
	"go.uber.org/zap"

	"github.com/unkn0wn-root/rediskit"
)

var _ rediskit.Logger = Logger{}

type Logger struct{ L *zap.Logger }

// New names the logger "rediskit".
func New(l *zap.Logger) Logger { return Logger{L: l.Named("rediskit")} }

func (z Logger) Debug(msg string, f rediskit.Fields) { z.L.Debug(msg, fields(f)...) }
func (z Logger) Info(msg string, f rediskit.Fields)  { z.L.Info(msg, fields(f)...) }
func (z Logger) Warn(msg string, f rediskit.Fields)  { z.L.Warn(msg, fields(f)...) }
func (z Logger) Error(msg string, f rediskit.Fields) { z.L.Error(msg, fields(f)...) }

func fields(f rediskit.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		switch x := v.(type) {
		case error:
			out = append(out, zap.NamedError(k, x))
		case rediskit.Shape:
			out = append(out, zap.Stringer(k, x))
		default:
			out = append(out, zap.Any(k, v))
		}
	}
	return out
}
