// Package loader reads match records and rule sets from disk.
package loader

import "github.com/okian/standings/pkg/logger"

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithLogger sets the logger used for per-file diagnostics.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// WithExtension changes the match file extension (default ".json").
func WithExtension(ext string) Option {
	return func(l *Loader) {
		if ext != "" {
			l.ext = ext
		}
	}
}
