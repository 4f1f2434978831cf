// Package logging provides structured logging for booru-prompt.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/booru-prompt/booru-prompt/internal/constants"
)

const timeFormat = "15:04:05"

// Logger wraps zerolog with console output and optional rotated file output.
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	file    *lumberjack.Logger
}

// Options configures a Logger.
type Options struct {
	// Out receives human-readable console output (default: os.Stderr).
	// stdout is reserved for prompts and JSON so output stays pipeable.
	Out io.Writer

	// LogFile, when set, also writes JSON log lines to a rotated file.
	LogFile string
}

// NewLogger creates a logger from opts.
func NewLogger(opts Options) *Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	l := &Logger{
		console: zerolog.ConsoleWriter{Out: out, TimeFormat: timeFormat},
	}

	if opts.LogFile != "" {
		l.file = &lumberjack.Logger{
			Filename:   opts.LogFile,
			MaxSize:    constants.LogMaxSizeMB,
			MaxBackups: constants.LogMaxBackups,
			MaxAge:     constants.LogMaxAgeDays,
			Compress:   true,
		}
	}

	l.rebuild()
	return l
}

// NewDefaultCLILogger creates a console-only logger on stderr.
func NewDefaultCLILogger() *Logger {
	return NewLogger(Options{})
}

func (l *Logger) rebuild() {
	var w io.Writer = l.console
	if l.file != nil {
		w = zerolog.MultiLevelWriter(l.console, l.file)
	}
	l.zlog = zerolog.New(w).With().Timestamp().Logger()
}

// Info returns an info level event.
func (l *Logger) Info() *zerolog.Event {
	return l.zlog.Info()
}

// Error returns an error level event.
func (l *Logger) Error() *zerolog.Event {
	return l.zlog.Error()
}

// Debug returns a debug level event.
func (l *Logger) Debug() *zerolog.Event {
	return l.zlog.Debug()
}

// Warn returns a warn level event.
func (l *Logger) Warn() *zerolog.Event {
	return l.zlog.Warn()
}

// With creates a child logger context.
func (l *Logger) With() zerolog.Context {
	return l.zlog.With()
}

// SetOutput redirects console output, keeping any file output.
func (l *Logger) SetOutput(w io.Writer) {
	l.console = zerolog.ConsoleWriter{Out: w, TimeFormat: timeFormat}
	l.rebuild()
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Debugf logs a debug message with printf-style formatting.
// Only shown when verbose/debug mode is enabled.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.zlog.Debug().Msgf(format, args...)
}

// Infof logs an info message with printf-style formatting.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.zlog.Info().Msgf(format, args...)
}

// Errorf logs an error message with printf-style formatting.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.zlog.Error().Msgf(format, args...)
}

// Warnf logs a warning message with printf-style formatting.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.zlog.Warn().Msgf(format, args...)
}

// SetGlobalLevel sets the global log level.
func SetGlobalLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: timeFormat,
	})
}
