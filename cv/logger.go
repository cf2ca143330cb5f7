package cv

// Logger is the minimal logging surface used across the module.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger drops all messages.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}

// LoggerOr returns l, or NopLogger when l is nil.
func LoggerOr(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}
