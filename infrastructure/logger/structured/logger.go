// ABOUTME: Logger implementation backed by logrus with optional lumberjack file rotation
// ABOUTME: Provides structured logging with level support

package structured

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"tiktok-downloader/pkg/config"
)

// Logger implements the Logger interface using logrus
type Logger struct {
	log  *logrus.Logger
	file *lumberjack.Logger
}

// NewLogger creates a logger from configuration. Output goes to stdout and,
// when cfg.File is set, to a size-rotated log file as well.
func NewLogger(cfg config.LogConfig) (*Logger, error) {
	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	l := &Logger{log: logrus.New()}
	l.log.SetLevel(level)

	if cfg.Format == "json" {
		l.log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	var out io.Writer = os.Stdout
	if cfg.File != "" {
		l.file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    100, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, l.file)
	}
	l.log.SetOutput(out)

	return l, nil
}

// NewWithWriter creates a logger writing JSON lines to w
func NewWithWriter(w io.Writer, level logrus.Level) *Logger {
	l := &Logger{log: logrus.New()}
	l.log.SetOutput(w)
	l.log.SetLevel(level)
	l.log.SetFormatter(&logrus.JSONFormatter{})
	return l
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.withFields(fields).Debug(msg)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.withFields(fields).Info(msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.withFields(fields).Warn(msg)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.withFields(fields).Error(msg)
}

// Writer exposes the logger as an io.Writer for http.Server.ErrorLog
func (l *Logger) Writer() *io.PipeWriter {
	return l.log.WriterLevel(logrus.ErrorLevel)
}

// Close flushes and closes the rotating log file, if any
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *Logger) withFields(fields map[string]interface{}) *logrus.Entry {
	if len(fields) == 0 {
		return logrus.NewEntry(l.log)
	}
	return l.log.WithFields(logrus.Fields(fields))
}
