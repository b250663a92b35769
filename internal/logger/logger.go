// Package logger настраивает zerolog под окружение приложения.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"issue_tracker/internal/config"
)

// New создаёт логгер: человекочитаемый вывод в dev, JSON в остальных окружениях.
// Заодно подменяет глобальный log.Logger.
func New(cfg config.Config) zerolog.Logger {
	return newWithWriter(cfg, os.Stdout)
}

func newWithWriter(cfg config.Config, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.AppEnv == "dev" {
		output := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		logger = zerolog.New(output).Level(level).With().Timestamp().Logger()
	} else {
		zerolog.TimeFieldFormat = time.RFC3339
		logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
	}

	log.Logger = logger
	return logger
}
