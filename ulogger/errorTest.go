package ulogger

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

type TestingT interface {
	Errorf(format string, args ...interface{})
	FailNow()
	Logf(format string, args ...any)
}

type tHelper = interface {
	Helper()
}

// ErrorTestLogger fails the test on any Errorf or Fatalf call unless
// SkipFailOnError(true) was set for a test that expects error logs.
type ErrorTestLogger struct {
	t              TestingT
	skipFailOnErr  atomic.Bool
	errorsReported atomic.Int64
	shutdown       atomic.Bool // Prevents logging after test cleanup
}

func NewErrorTestLogger(t TestingT) *ErrorTestLogger {
	return &ErrorTestLogger{t: t}
}

func (l *ErrorTestLogger) SkipFailOnError(skip bool) {
	l.skipFailOnErr.Store(skip)
}

// ErrorCount returns the number of Errorf and Fatalf calls seen so far.
func (l *ErrorTestLogger) ErrorCount() int64 {
	return l.errorsReported.Load()
}

// Shutdown marks the logger as shutdown, preventing further access to testing.T
func (l *ErrorTestLogger) Shutdown() {
	l.shutdown.Store(true)
}

func (l *ErrorTestLogger) LogLevel() int {
	return 0
}

func (l *ErrorTestLogger) SetLogLevel(string) {}

func (l *ErrorTestLogger) New(string, ...Option) Logger {
	return l
}

func (l *ErrorTestLogger) Duplicate(...Option) Logger {
	return l
}

func (l *ErrorTestLogger) Debugf(string, ...interface{}) {}

func (l *ErrorTestLogger) Infof(string, ...interface{}) {}

func (l *ErrorTestLogger) Warnf(string, ...interface{}) {}

func (l *ErrorTestLogger) Errorf(format string, args ...interface{}) {
	l.report("ERR_LEVEL", format, args...)
}

func (l *ErrorTestLogger) Fatalf(format string, args ...interface{}) {
	l.report("FATAL_LEVEL", format, args...)
}

func (l *ErrorTestLogger) report(level string, format string, args ...interface{}) {
	l.errorsReported.Add(1)

	if l.shutdown.Load() {
		return
	}

	if h, ok := l.t.(tHelper); ok {
		h.Helper()
	}

	_, file, line, _ := runtime.Caller(2)
	msg := fmt.Sprintf("%s:%d: %s %s", file, line, level, fmt.Sprintf(format, args...))

	if l.skipFailOnErr.Load() {
		l.t.Logf("%s", msg)
		return
	}

	l.t.Errorf("%s", msg)
}
