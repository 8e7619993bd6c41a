package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"sortly/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug = false
	mu      sync.RWMutex
	logger  = NewLogger()
)

// Field is a single structured key/value attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger wraps a logrus entry so fields can be chained without mutating the parent.
type Logger struct {
	entry *logrus.Entry
	file  *os.File
}

type options struct {
	out   io.Writer
	json  bool
	file  string
	level logrus.Level
}

// Option configures a Logger.
type Option func(*options)

// WithOutput directs log lines to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithJSON switches to one JSON object per line.
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithFile additionally appends log lines to the file at path.
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// WithLevel sets the minimum level by name (debug, info, warn, error).
// Unknown names fall back to info.
func WithLevel(name string) Option {
	return func(o *options) {
		lvl, err := logrus.ParseLevel(name)
		if err != nil {
			lvl = logrus.InfoLevel
		}
		o.level = lvl
	}
}

func NewLogger(opts ...Option) *Logger {
	o := &options{out: os.Stdout, level: logrus.DebugLevel}
	for _, opt := range opts {
		opt(o)
	}

	base := logrus.New()
	base.SetLevel(o.level)

	out := o.out
	var file *os.File
	if o.file != "" {
		if err := os.MkdirAll(filepath.Dir(o.file), 0755); err == nil {
			f, err := os.OpenFile(o.file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err == nil {
				file = f
				out = io.MultiWriter(o.out, f)
			}
		}
	}
	base.SetOutput(out)

	if o.json {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return &Logger{entry: logrus.NewEntry(base), file: file}
}

// Configure replaces the package-level logger.
func Configure(opts ...Option) {
	l := NewLogger(opts...)
	mu.Lock()
	logger = l
	mu.Unlock()
}

// Close releases the log file of the package-level logger, if any.
func Close() {
	mu.RLock()
	defer mu.RUnlock()
	if logger.file != nil {
		logger.file.Close()
	}
}

func SetDebug(debug bool) {
	isDebug = debug
}

func current() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// With returns a child logger carrying the given fields.
func (l *Logger) With(fields ...Field) *Logger {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &Logger{entry: l.entry.WithFields(data), file: l.file}
}

// WithContext attaches ctx to the underlying entry.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	return &Logger{entry: l.entry.WithContext(ctx), file: l.file}
}

// WithError attaches err and, for application errors, its kind and subject.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l.With(F("error", "<nil>"))
	}
	fields := []Field{F("error", err.Error()), F("error_kind", errors.KindOf(err).String())}

	var fileErr *errors.FileError
	var configErr *errors.ConfigError
	var toolErr *errors.ToolError
	var transportErr *errors.TransportError
	switch {
	case errors.As(err, &fileErr):
		fields = append(fields, F("path", fileErr.Path()))
	case errors.As(err, &configErr):
		fields = append(fields, F("param", configErr.Param()))
	case errors.As(err, &toolErr):
		fields = append(fields, F("tool", toolErr.ToolName()))
	case errors.As(err, &transportErr):
		if transportErr.Status() != 0 {
			fields = append(fields, F("status", transportErr.Status()))
		}
	}
	return l.With(fields...)
}

// Info logs at info level.
func (l *Logger) Info(msg string) { l.log(logrus.InfoLevel, msg) }

// Infof logs a formatted message at info level.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(logrus.InfoLevel, fmt.Sprintf(format, args...))
}

// Debug logs at debug level when debug output is enabled.
func (l *Logger) Debug(msg string) {
	if isDebug {
		l.log(logrus.DebugLevel, msg)
	}
}

// Debugf logs a formatted message at debug level when debug output is enabled.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug {
		l.log(logrus.DebugLevel, fmt.Sprintf(format, args...))
	}
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string) { l.log(logrus.WarnLevel, msg) }

// Warnf logs a formatted message at warn level.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(logrus.WarnLevel, fmt.Sprintf(format, args...))
}

// Error logs at error level.
func (l *Logger) Error(msg string) { l.log(logrus.ErrorLevel, msg) }

// Errorf logs a formatted message at error level.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(logrus.ErrorLevel, fmt.Sprintf(format, args...))
}

// log must be called directly from an exported method so the caller frame
// two levels up is the user's call site.
func (l *Logger) log(level logrus.Level, msg string) {
	entry := l.entry
	if _, file, line, ok := runtime.Caller(2); ok {
		entry = entry.WithField("caller", fmt.Sprintf("%s:%d", filepath.Base(file), line))
	}
	entry.Log(level, msg)
}

func Info(format string, args ...interface{}) {
	current().log(logrus.InfoLevel, fmt.Sprintf(format, args...))
}

// Debug logs a message with arguments
func Debug(format string, args ...interface{}) {
	if isDebug {
		current().log(logrus.DebugLevel, fmt.Sprintf(format, args...))
	}
}

// Debugf logs a formatted message
func Debugf(format string, args ...interface{}) {
	if isDebug {
		current().log(logrus.DebugLevel, fmt.Sprintf(format, args...))
	}
}

// Warn logs a warning message with arguments
func Warn(format string, args ...interface{}) {
	current().log(logrus.WarnLevel, fmt.Sprintf(format, args...))
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	current().log(logrus.WarnLevel, fmt.Sprintf(format, args...))
}

// Error logs an error message with arguments
func Error(format string, args ...interface{}) {
	current().log(logrus.ErrorLevel, fmt.Sprintf(format, args...))
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	current().log(logrus.ErrorLevel, fmt.Sprintf(format, args...))
}

// LogWithFields returns the package logger carrying fields.
func LogWithFields(fields ...Field) *Logger {
	return current().With(fields...)
}

// LogWithError returns the package logger carrying err and its classification.
func LogWithError(err error) *Logger {
	return current().WithError(err)
}

// LogError is shorthand for LogWithError(err).Error(msg).
func LogError(err error, msg string) {
	current().WithError(err).log(logrus.ErrorLevel, msg)
}
