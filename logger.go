package rediskit

// Fields are the structured context attached to a log line. Command sets
// always set "key"; most also set "shape" and "op".
type Fields map[string]any

// Logger receives the command layer's diagnostics: key and field misses at
// info, refused operations (numeric guards, expiry conflicts, bad indexes) at
// error, decode fallbacks and failed health checks at warn.
// Adapters live in log/logrus, log/zap and log/slog.
type Logger interface {
	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)
}

// NopLogger discards everything. It is used when Options.Logger is nil.
type NopLogger struct{}

func (NopLogger) Debug(string, Fields) {}
func (NopLogger) Info(string, Fields)  {}
func (NopLogger) Warn(string, Fields)  {}
func (NopLogger) Error(string, Fields) {}
