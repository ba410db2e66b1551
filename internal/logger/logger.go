package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Logger is the process-wide structured logger
var Logger = slog.New(slog.NewTextHandler(os.Stdout, nil))

var level = new(slog.LevelVar)

// Options configures the process-wide logger
type Options struct {
	Level string
	File  string
}

// Configure replaces Logger according to opts. An invalid level or an
// unwritable file still yields a working stdout logger alongside the error.
func Configure(opts Options) error {
	var levelErr error
	if strings.TrimSpace(opts.Level) != "" {
		var parsed slog.Level
		parsed, levelErr = ParseLevel(opts.Level)
		if levelErr == nil {
			level.Set(parsed)
		}
	}

	writer := io.Writer(os.Stdout)
	var fileErr error
	if strings.TrimSpace(opts.File) != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			fileErr = err
		} else {
			file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				fileErr = err
			} else {
				writer = io.MultiWriter(os.Stdout, file)
			}
		}
	}

	Logger = slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level}))
	return errors.Join(levelErr, fileErr)
}

// ParseLevel maps a config value onto a slog level
func ParseLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", value)
	}
}

func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}
