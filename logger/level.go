// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

const (
	levelNotice  = slog.Level(2)
	levelDisable = slog.Level(99)
)

var (
	customLevels = map[slog.Leveler]string{
		levelNotice: "NOTICE",
	}
	customLevelsTerm = map[slog.Leveler]string{
		levelNotice: "\u001B[34m" + "NTC" + "\u001B[0m",
	}
)

// Level is shared by every Logger. It defaults to info; the debug flag lowers it.
var Level = &level{lvl: &slog.LevelVar{}}

type level struct {
	lvl *slog.LevelVar
}

func (l *level) Enabled(level slog.Level) bool {
	return level >= l.lvl.Level()
}

func (l *level) Set(level slog.Level) {
	l.lvl.Set(level)
}

// SetByName sets the level from its name. An unknown name is an error and leaves it unchanged.
func (l *level) SetByName(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "err", "error":
		l.lvl.Set(slog.LevelError)
	case "warn", "warning":
		l.lvl.Set(slog.LevelWarn)
	case "notice":
		l.lvl.Set(levelNotice)
	case "info":
		l.lvl.Set(slog.LevelInfo)
	case "debug":
		l.lvl.Set(slog.LevelDebug)
	case "off", "none", "emergency", "alert", "critical":
		l.lvl.Set(levelDisable)
	default:
		return fmt.Errorf("unknown log level '%s'", level)
	}
	return nil
}
