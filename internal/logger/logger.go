package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Logger is the process-wide logger. Nil until Init is called.
	Logger *log.Logger
)

// Config controls where and how much sadhana logs.
type Config struct {
	Debug bool
	// Dir is the data directory; log files go in <Dir>/logs.
	Dir string
	// Level overrides the default level ("warn", or "debug" with Debug set).
	Level string
}

// Init sets up the global logger with a rotating file sink.
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.Dir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "sadhana.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	var writer io.Writer = fileWriter
	if cfg.Debug {
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	Logger = New(writer, cfg)
	return nil
}

// New builds a logger on an arbitrary writer. Tests use it to capture output.
func New(w io.Writer, cfg Config) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           levelFor(cfg),
		Prefix:          "sadhana",
	})
}

func levelFor(cfg Config) log.Level {
	if cfg.Debug {
		return log.DebugLevel
	}
	if cfg.Level != "" {
		if lvl, err := log.ParseLevel(strings.ToLower(cfg.Level)); err == nil {
			return lvl
		}
	}
	return log.WarnLevel
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs a fatal error and exits
func Fatal(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}
