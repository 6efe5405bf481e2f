// Package logging provides structured logging for the QuickApp Manager.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

// Config holds logging configuration.
type Config struct {
	Level      string `yaml:"level" json:"level"`             // debug, info, warn, error
	Format     string `yaml:"format" json:"format"`           // text, json, console
	Output     string `yaml:"output" json:"output"`           // stdout, stderr, or file path
	TimeFormat string `yaml:"time_format" json:"time_format"` // console format only
}

// DefaultConfig returns the default logging configuration. Startup
// diagnostics such as the HC3 variable summary are logged at info.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "text",
		Output:     "stderr",
		TimeFormat: "15:04:05.000",
	}
}

// DiagnosticConfig is the sink enabled for development builds.
func DiagnosticConfig() Config {
	return Config{
		Level:      "debug",
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "15:04:05.000",
	}
}

var (
	defaultLogger  *slog.Logger
	loggerMu       sync.RWMutex
	currentLogFile *os.File
)

func init() {
	defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// Close closes the current log file if one is open.
func Close() error {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if currentLogFile != nil {
		err := currentLogFile.Close()
		currentLogFile = nil
		return err
	}
	return nil
}

// Setup initializes the logging system with the given configuration.
func Setup(cfg Config) error {
	output, logFile, err := getOutput(cfg.Output)
	if err != nil {
		return err
	}

	handler, err := NewHandler(cfg, output)
	if err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return err
	}

	install(handler, logFile)
	return nil
}

// SetupWriter is Setup with an explicit destination; cfg.Output is ignored.
func SetupWriter(cfg Config, w io.Writer) error {
	handler, err := NewHandler(cfg, w)
	if err != nil {
		return err
	}
	install(handler, nil)
	return nil
}

func install(handler slog.Handler, logFile *os.File) {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if currentLogFile != nil {
		currentLogFile.Close()
	}
	currentLogFile = logFile
	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// NewHandler builds the slog.Handler described by cfg, writing to w.
func NewHandler(cfg Config, w io.Writer) (slog.Handler, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.Format) {
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	case "text", "":
		return slog.NewTextHandler(w, opts), nil
	case "console":
		timeFormat := cfg.TimeFormat
		if timeFormat == "" {
			timeFormat = DefaultConfig().TimeFormat
		}
		return charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmLevel(level),
			ReportTimestamp: true,
			TimeFormat:      timeFormat,
		}), nil
	default:
		return nil, fmt.Errorf("unknown log format: %s", cfg.Format)
	}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", level)
	}
}

func charmLevel(level slog.Level) charmlog.Level {
	switch level {
	case slog.LevelDebug:
		return charmlog.DebugLevel
	case slog.LevelWarn:
		return charmlog.WarnLevel
	case slog.LevelError:
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

// getOutput returns an io.Writer for the given output specification.
// Returns the writer, the file handle (if a file was opened, nil otherwise), and any error.
func getOutput(output string) (io.Writer, *os.File, error) {
	switch strings.ToLower(output) {
	case "stderr", "":
		return os.Stderr, nil, nil
	case "stdout":
		return os.Stdout, nil, nil
	default:
		dir := filepath.Dir(output)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return f, f, nil
	}
}

// Default returns the default logger.
func Default() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return defaultLogger
}

// With returns a new logger with the given attributes.
func With(args ...any) *slog.Logger {
	return Default().With(args...)
}

// WithComponent returns a logger with a component attribute.
func WithComponent(component string) *slog.Logger {
	return With("component", component)
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	Default().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	Default().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	Default().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	Default().Error(msg, args...)
}
