// Package logger wraps zap with the small amount of configuration this
// project needs: a leveled, optionally colored console stream plus an
// optional rotating JSON log file.
//
// Most code takes a *Logger explicitly; the global Init/Get pair exists
// for the CLI entry points.
package logger

import (
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options holds logger configuration.
type Options struct {
	// ConsoleLevel is the minimum level written to stdout.
	ConsoleLevel zapcore.Level
	// FileLevel is the minimum level written to the log file.
	FileLevel zapcore.Level
	// LogFilePath is the log file location. Required when FileOutput is set.
	LogFilePath string
	// ConsoleOutput enables the stdout core.
	ConsoleOutput bool
	// FileOutput enables the rotating JSON file core.
	FileOutput bool
	// ColorConsole enables ANSI colored level names on the console.
	ColorConsole bool
	// TimestampFormat is the time layout used in both cores.
	TimestampFormat string
}

// DefaultOptions logs INFO+ to a colored console and keeps file output off.
func DefaultOptions() Options {
	return Options{
		ConsoleLevel:    zapcore.InfoLevel,
		FileLevel:       zapcore.DebugLevel,
		LogFilePath:     "xenops.log",
		ConsoleOutput:   true,
		ColorConsole:    true,
		TimestampFormat: time.RFC3339,
	}
}

// Logger is a thin wrapper around zap.SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
	opts Options
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Init configures the global logger. Only the first call has any effect.
func Init(opts Options) {
	once.Do(func() {
		l, err := NewLogger(opts)
		if err != nil {
			// Fall back to a bare development logger rather than losing
			// logging entirely.
			zl, _ := zap.NewDevelopment()
			l = &Logger{SugaredLogger: zl.Sugar(), opts: opts}
		}
		globalLogger = l
	})
}

// Get returns the global logger, initializing it with defaults if Init
// was never called.
func Get() *Logger {
	if globalLogger == nil {
		Init(DefaultOptions())
	}
	return globalLogger
}

// NewLogger builds an independent logger instance from opts.
func NewLogger(opts Options) (*Logger, error) {
	if opts.TimestampFormat == "" {
		opts.TimestampFormat = time.RFC3339
	}

	var cores []zapcore.Core

	if opts.ConsoleOutput {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout(opts.TimestampFormat)
		if opts.ColorConsole {
			cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		}
		enc := zapcore.NewConsoleEncoder(cfg)
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(os.Stdout), opts.ConsoleLevel))
	}

	if opts.FileOutput {
		if opts.LogFilePath == "" {
			return nil, os.ErrInvalid
		}
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout(opts.TimestampFormat)
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.LogFilePath,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(cfg), sink, opts.FileLevel))
	}

	if len(cores) == 0 {
		return &Logger{SugaredLogger: zap.NewNop().Sugar(), opts: opts}, nil
	}

	zl := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return &Logger{SugaredLogger: zl.Sugar(), opts: opts}, nil
}

// With returns a child logger with the given structured context attached.
func (l *Logger) With(args ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(args...), opts: l.opts}
}

// Sync flushes buffered entries. Call before process exit.
func (l *Logger) Sync() error {
	if l == nil || l.SugaredLogger == nil {
		return nil
	}
	return l.SugaredLogger.Sync()
}

// SyncGlobal flushes the global logger.
func SyncGlobal() error {
	return Get().Sync()
}
