package dlsim

// nullLogger is the default [Logger] used when a caller does not supply
// one; it discards everything.
type nullLogger struct{}

func (nullLogger) Debugf(format string, v ...any) {}
func (nullLogger) Debug(message string)           {}
func (nullLogger) Infof(format string, v ...any)  {}
func (nullLogger) Info(message string)            {}
func (nullLogger) Warnf(format string, v ...any)  {}
func (nullLogger) Warn(message string)            {}

var _ Logger = nullLogger{}
