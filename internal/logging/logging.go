// Package logging sets up the zerolog logger. The terminal belongs to the UI,
// so log lines go to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/squeng/fixadat/internal/config"
)

// New builds a logger writing to w. local gets human-readable lines at debug,
// dev gets JSON at debug and prod gets JSON at level.
func New(env, level string, w io.Writer) zerolog.Logger {
	switch env {
	case config.EnvLocal:
		cw := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.DateTime}
		return zerolog.New(cw).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	case config.EnvDev:
		return zerolog.New(w).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	default:
		lvl, err := zerolog.ParseLevel(level)
		if err != nil || lvl == zerolog.NoLevel {
			lvl = zerolog.InfoLevel
		}
		return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	}
}

// Open creates the log file named in cfg and a logger on top of it. The
// returned file must be closed by the caller.
func Open(cfg *config.Config) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o700); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	return New(cfg.Env, cfg.LogLevel, f), f, nil
}
