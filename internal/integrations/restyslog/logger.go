// Package restyslog routes resty's internal logging through log/slog.
package restyslog

import (
	"fmt"
	"log/slog"
	"strings"
)

// Logger satisfies resty.Logger.
type Logger struct {
	component string
	log       *slog.Logger
}

// New returns a Logger tagging every record with component. A nil log means
// the slog default at call time.
func New(component string, log *slog.Logger) *Logger {
	return &Logger{component: component, log: log}
}

func (l *Logger) logger() *slog.Logger {
	if l.log != nil {
		return l.log
	}
	return slog.Default()
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.logger().Error(message(format, v...), "component", l.component)
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.logger().Warn(message(format, v...), "component", l.component)
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	l.logger().Debug(message(format, v...), "component", l.component)
}

func message(format string, v ...interface{}) string {
	return strings.TrimSpace(fmt.Sprintf(format, v...))
}
