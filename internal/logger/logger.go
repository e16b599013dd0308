// Package logger builds the process logger and bridges third-party loggers onto it.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dyike/ETFScope/config"
)

const timeFormat = "2006-01-02 15:04:05"

// New returns a colored console logger writing to stderr
func New(cfg *config.Config) zerolog.Logger {
	return newConsole(cfg, os.Stderr, false)
}

// NewWithWriter returns an uncolored console logger, for files and buffers
func NewWithWriter(cfg *config.Config, w io.Writer) zerolog.Logger {
	return newConsole(cfg, w, true)
}

func newConsole(cfg *config.Config, w io.Writer, noColor bool) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: timeFormat, NoColor: noColor}
	return zerolog.New(out).Level(Level(cfg)).With().Timestamp().Logger()
}

// Level resolves the configured level; debug mode wins over the level name
func Level(cfg *config.Config) zerolog.Level {
	if cfg.Debug {
		return zerolog.DebugLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// Resty adapts a zerolog logger to resty's Logger interface
type Resty struct {
	Logger *zerolog.Logger
}

func (r Resty) Errorf(format string, v ...interface{}) {
	r.Logger.Error().Str("component", "http").Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (r Resty) Warnf(format string, v ...interface{}) {
	r.Logger.Warn().Str("component", "http").Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (r Resty) Debugf(format string, v ...interface{}) {
	r.Logger.Debug().Str("component", "http").Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
