package logger

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logDirPermission = 0o750

	defaultMaxSizeMB  = 10
	defaultMaxBackups = 5
	defaultMaxAgeDays = 14
)

type options struct {
	writer io.Writer
	json   bool
	file   *lumberjack.Logger
}

// Option customizes Init.
type Option func(*options)

// WithWriter replaces stdout as the primary sink.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.writer = w
		}
	}
}

// WithJSON switches the handler to JSON output.
func WithJSON(enabled bool) Option {
	return func(o *options) {
		o.json = enabled
	}
}

// WithFile mirrors output into a size-rotated file. An empty path is ignored.
func WithFile(path string) Option {
	return func(o *options) {
		if path == "" {
			return
		}
		o.file = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    defaultMaxSizeMB,
			MaxBackups: defaultMaxBackups,
			MaxAge:     defaultMaxAgeDays,
			Compress:   true,
		}
	}
}
