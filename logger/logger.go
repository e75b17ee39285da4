// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/natefinch/lumberjack"
)

const (
	logFileMaxSizeMB  = 5
	logFileMaxAgeDays = 14
	logFileMaxBackups = 5
)

var (
	isJournal = isStderrConnectedToJournal()
	progAttr  = slog.String("program", "mysqlstats")
)

// New returns a Logger writing to stderr: colored and with source locations on a
// terminal, plain key=value text otherwise.
func New() *Logger {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		// skip 2 slog pkg calls, 3 this pkg calls
		return &Logger{sl: slog.New(withCallDepth(5, newTerminalHandler()))}
	}
	return NewWithWriter(os.Stderr)
}

// NewWithFile is New that also appends to a size-rotated log file.
func NewWithFile(path string) *Logger {
	if path == "" {
		return New()
	}
	return NewWithWriter(io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logFileMaxSizeMB,
		MaxAge:     logFileMaxAgeDays,
		MaxBackups: logFileMaxBackups,
	}))
}

// NewWithWriter returns a Logger writing plain key=value text to w.
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{sl: slog.New(newTextHandler(w)).With(progAttr)}
}

type Logger struct {
	sl *slog.Logger
}

func (l *Logger) Error(a ...any) { l.log(slog.LevelError, fmt.Sprint(a...)) }

func (l *Logger) Errorf(format string, a ...any) {
	l.log(slog.LevelError, fmt.Sprintf(format, a...))
}

func (l *Logger) Warningf(format string, a ...any) {
	l.log(slog.LevelWarn, fmt.Sprintf(format, a...))
}

func (l *Logger) Noticef(format string, a ...any) {
	l.log(levelNotice, fmt.Sprintf(format, a...))
}

func (l *Logger) Infof(format string, a ...any) {
	l.log(slog.LevelInfo, fmt.Sprintf(format, a...))
}

func (l *Logger) Debugf(format string, a ...any) {
	l.log(slog.LevelDebug, fmt.Sprintf(format, a...))
}

func (l *Logger) With(args ...any) *Logger {
	if l.isNil() {
		return &Logger{sl: New().sl.With(args...)}
	}
	return &Logger{sl: l.sl.With(args...)}
}

func (l *Logger) log(level slog.Level, msg string) {
	if l.isNil() {
		return
	}
	l.sl.Log(context.Background(), level, msg)
}

func (l *Logger) isNil() bool { return l == nil || l.sl == nil }
