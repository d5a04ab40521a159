package ulogger

import (
	"sync"
	"testing"
)

// VerboseTestLogger writes every level through t.Logf.
type VerboseTestLogger struct {
	t     *testing.T
	mutex sync.Mutex
}

func NewVerboseTestLogger(t *testing.T) *VerboseTestLogger {
	return &VerboseTestLogger{t: t}
}

func (l *VerboseTestLogger) LogLevel() int {
	return 0
}

func (l *VerboseTestLogger) SetLogLevel(string) {}

func (l *VerboseTestLogger) New(string, ...Option) Logger {
	return l
}

func (l *VerboseTestLogger) Duplicate(...Option) Logger {
	return l
}

func (l *VerboseTestLogger) Debugf(format string, args ...interface{}) {
	l.log("[DEBUG] "+format, args...)
}

func (l *VerboseTestLogger) Infof(format string, args ...interface{}) {
	l.log("[INFO] "+format, args...)
}

func (l *VerboseTestLogger) Warnf(format string, args ...interface{}) {
	l.log("[WARN] "+format, args...)
}

func (l *VerboseTestLogger) Errorf(format string, args ...interface{}) {
	l.log("[ERROR] "+format, args...)
}

func (l *VerboseTestLogger) Fatalf(format string, args ...interface{}) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.t.Fatalf("[FATAL] "+format, args...)
}

func (l *VerboseTestLogger) log(format string, args ...interface{}) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.t.Logf(format, args...)
}
