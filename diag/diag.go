package diag

import (
	"log"

	"github.com/fatih/color"
)

// Logger colors diagnostics by severity on top of a plain stdlib logger, so
// output lands wherever the owner already points its logs.
type Logger struct {
	l     *log.Logger
	debug bool
}

// New wraps l. Passing nil uses log.Default(). Debug lines are dropped unless
// debug is set.
func New(l *log.Logger, debug bool) *Logger {
	if l == nil {
		l = log.Default()
	}

	return &Logger{l: l, debug: debug}
}

func (d *Logger) Errorf(format string, args ...any) {
	d.l.Print(color.RedString(format, args...))
}

func (d *Logger) Warnf(format string, args ...any) {
	d.l.Print(color.YellowString(format, args...))
}

func (d *Logger) Infof(format string, args ...any) {
	d.l.Printf(format, args...)
}

func (d *Logger) Debugf(format string, args ...any) {
	if d.debug {
		d.l.Print(color.CyanString(format, args...))
	}
}
