// Package stdlogger adapts the global zerolog logger to printf style logger
// interfaces such as the one of gorm.
package stdlogger

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gormlogger "gorm.io/gorm/logger"
)

// SlowQuery is the duration after which gorm reports a query as slow.
const SlowQuery = 200 * time.Millisecond

// Logger writes printf style messages to the global zerolog logger.
type Logger struct {
	component string
}

// New returns a Logger tagging every message with component.
func New(component string) *Logger {
	return &Logger{component: component}
}

func (l *Logger) event(level zerolog.Level) *zerolog.Event {
	e := log.WithLevel(level)
	if l.component != "" {
		e = e.Str("component", l.component)
	}

	return e
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) {
	l.event(zerolog.DebugLevel).Msgf(format, args...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.event(zerolog.InfoLevel).Msgf(format, args...)
}

// Warningf logs at warn level.
func (l *Logger) Warningf(format string, args ...any) {
	l.event(zerolog.WarnLevel).Msgf(format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.event(zerolog.ErrorLevel).Msgf(format, args...)
}

// Printf implements gorm's logger.Writer. Messages carrying an error or read as
// warnings keep that level, everything else is logged at debug level.
func (l *Logger) Printf(format string, args ...any) {
	switch {
	case strings.Contains(format, "[error]"), hasError(args):
		l.Errorf(format, args...)
	case strings.Contains(format, "SLOW SQL"), strings.Contains(format, "[warn]"):
		l.Warningf(format, args...)
	case strings.Contains(format, "[info]"):
		l.Infof(format, args...)
	default:
		l.Debugf(format, args...)
	}
}

// Gorm returns a gorm logger reporting slow queries and errors.
func Gorm() gormlogger.Interface {
	return gormlogger.New(New("gorm"), gormlogger.Config{
		SlowThreshold:             SlowQuery,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func hasError(args []any) bool {
	for _, a := range args {
		if _, ok := a.(error); ok {
			return true
		}
	}

	return false
}
