package zipper

import (
	"log/slog"

	"github.com/mcdonaldj/zipkit/internal/adapters/osfs"
	"github.com/mcdonaldj/zipkit/internal/adapters/ziparchiver"
	"github.com/mcdonaldj/zipkit/internal/ports"
)

// Option configures a session.
type Option func(*options)

type options struct {
	engine ports.Engine
	fs     ports.FileSystem
	logger *slog.Logger
}

// WithEngine sets the archive engine. By default sessions use the
// klauspost/compress based engine over the session filesystem.
func WithEngine(engine ports.Engine) Option {
	return func(o *options) {
		o.engine = engine
	}
}

// WithFileSystem sets the filesystem used for source files, extraction
// destinations, and (unless WithEngine is given) the archive itself.
func WithFileSystem(fs ports.FileSystem) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithLogger sets the logger for session operations.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.fs == nil {
		o.fs = osfs.New()
	}
	if o.engine == nil {
		o.engine = ziparchiver.New(o.fs)
	}
	return o
}
