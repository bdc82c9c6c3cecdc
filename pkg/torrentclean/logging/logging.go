// Package logging provides component loggers for torrent-clean backed by
// charmbracelet/log, with a rotating file sink and an optional stderr sink.
//
// Loggers obtained before Init are silent:
//
//	if err := logging.Init(logging.DefaultConfig()); err != nil {
//	    return err
//	}
//	defer logging.Close()
//
//	logging.Get("cleanup").Warn("delete failed", "path", p, "error", err)
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "torrent-clean"

// Level represents a logging level.
type Level int

// Log levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

func (l Level) charm() log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ErrInvalidLevel is returned when an invalid log level string is provided.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel parses a string into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %s", ErrInvalidLevel, s)
	}
}

// Config configures the logging system.
type Config struct {
	// Level is the default file log level (debug, info, warn, error).
	Level string

	// Path is the log file path. Empty uses DefaultLogPath().
	Path string

	// Rotation configures log file rotation.
	Rotation RotationConfig

	// Components maps component names to level overrides.
	Components map[string]string

	// ConsoleLevel enables stderr output at the given level.
	// Empty disables console output.
	ConsoleLevel string

	// Console is where console output goes. Nil means os.Stderr.
	Console io.Writer
}

// Logger is a component logger writing to the file sink and, when enabled,
// to the console.
type Logger struct {
	file    *log.Logger
	console *log.Logger
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.log(LevelDebug, msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...interface{}) {
	l.log(LevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.log(LevelWarn, msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...interface{}) {
	l.log(LevelError, msg, args...)
}

func (l *Logger) log(level Level, msg string, args ...interface{}) {
	logTo(l.file, level, msg, args...)
	if l.console != nil {
		logTo(l.console, level, msg, args...)
	}
}

func logTo(logger *log.Logger, level Level, msg string, args ...interface{}) {
	switch level {
	case LevelDebug:
		logger.Debug(msg, args...)
	case LevelInfo:
		logger.Info(msg, args...)
	case LevelWarn:
		logger.Warn(msg, args...)
	case LevelError:
		logger.Error(msg, args...)
	}
}

// With returns a new logger with additional key/value context.
func (l *Logger) With(args ...interface{}) *Logger {
	nl := &Logger{
		file: l.file.With(args...),
	}
	if l.console != nil {
		nl.console = l.console.With(args...)
	}
	return nl
}

type state struct {
	mu          sync.RWMutex
	initialized bool
	writer      *RotatingWriter
	level       Level
	components  map[string]Level
	loggers     map[string]*Logger

	consoleEnabled bool
	consoleLevel   Level
	console        io.Writer
}

var globalState = &state{
	level:      LevelInfo,
	loggers:    make(map[string]*Logger),
	components: make(map[string]Level),
}

// Init configures the logging system. Calling it again replaces the
// previous configuration and rebuilds every logger handed out so far.
func Init(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}

	components := make(map[string]Level, len(cfg.Components))
	for comp, lvl := range cfg.Components {
		parsed, err := ParseLevel(lvl)
		if err != nil {
			return fmt.Errorf("parsing level for component %s: %w", comp, err)
		}
		components[comp] = parsed
	}

	var consoleLevel Level
	if cfg.ConsoleLevel != "" {
		consoleLevel, err = ParseLevel(cfg.ConsoleLevel)
		if err != nil {
			return fmt.Errorf("parsing console level: %w", err)
		}
	}

	path := cfg.Path
	if path == "" {
		path = DefaultLogPath()
	}

	writer, err := NewRotatingWriter(path, cfg.Rotation)
	if err != nil {
		return fmt.Errorf("creating log writer: %w", err)
	}

	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	if globalState.writer != nil {
		_ = globalState.writer.Close()
	}

	globalState.writer = writer
	globalState.level = level
	globalState.components = components
	globalState.consoleEnabled = cfg.ConsoleLevel != ""
	globalState.consoleLevel = consoleLevel
	globalState.console = cfg.Console
	if globalState.console == nil {
		globalState.console = os.Stderr
	}
	globalState.initialized = true

	// Rebuild in place so loggers already held by callers pick up the new sinks.
	for component, logger := range globalState.loggers {
		*logger = *createLogger(component)
	}

	return nil
}

// Get returns the logger for a component, creating it on first use.
func Get(component string) *Logger {
	globalState.mu.RLock()
	if logger, ok := globalState.loggers[component]; ok {
		globalState.mu.RUnlock()
		return logger
	}
	globalState.mu.RUnlock()

	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	if logger, ok := globalState.loggers[component]; ok {
		return logger
	}

	logger := createLogger(component)
	globalState.loggers[component] = logger
	return logger
}

// createLogger must be called with globalState.mu held.
func createLogger(component string) *Logger {
	level := globalState.level
	if compLevel, ok := globalState.components[component]; ok {
		level = compLevel
	}

	if !globalState.initialized {
		return &Logger{
			file: log.NewWithOptions(io.Discard, log.Options{
				Level:  level.charm(),
				Prefix: component,
			}),
		}
	}

	logger := &Logger{
		file: log.NewWithOptions(globalState.writer, log.Options{
			Level:           level.charm(),
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          component,
		}),
	}

	if globalState.consoleEnabled {
		logger.console = log.NewWithOptions(globalState.console, log.Options{
			Level:           globalState.consoleLevel.charm(),
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
			Prefix:          component,
		})
	}

	return logger
}

// Close flushes and closes the log file. Existing loggers become silent again.
func Close() error {
	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	if !globalState.initialized {
		return nil
	}

	var err error
	if globalState.writer != nil {
		if cerr := globalState.writer.Close(); cerr != nil {
			err = fmt.Errorf("closing log writer: %w", cerr)
		}
		globalState.writer = nil
	}

	globalState.initialized = false
	globalState.consoleEnabled = false
	globalState.components = make(map[string]Level)
	globalState.level = LevelInfo
	for component, logger := range globalState.loggers {
		*logger = *createLogger(component)
	}

	return err
}

// DefaultLogPath returns $XDG_STATE_HOME/torrent-clean/torrent-clean.log.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, AppName, AppName+".log")
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Level:    "info",
		Path:     DefaultLogPath(),
		Rotation: DefaultRotationConfig(),
	}
}
