// Package logging builds the zerolog logger used across the CLI.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"template-composer/internal/config"
)

// New returns a logger writing to w. Format "json" emits raw JSON lines;
// anything else uses the console writer. Unknown levels fall back to info.
func New(cfg config.AppConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out := w
	if !strings.EqualFold(cfg.LogFormat, "json") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: true}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
