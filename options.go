package colfilter

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/hupe1980/colfilter/codec"
	"github.com/hupe1980/colfilter/resource"
	"github.com/hupe1980/colfilter/snapshot"
)

type options struct {
	codec          codec.Codec
	compression    snapshot.Compression
	logger         *Logger
	res            *resource.Controller
	maxParallelism int
	now            func() time.Time
}

// Option configures Engine constructor behavior.
type Option func(*options)

// WithCodec configures the codec used for snapshot encoding.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures the snapshot body compression.
func WithCompression(c snapshot.Compression) Option {
	return func(o *options) {
		if c == nil {
			c = snapshot.None{}
		}
		o.compression = c
	}
}

// WithResourceController bounds cache fetch concurrency and row
// throughput across every column of the engine.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.res = rc
	}
}

// WithMaxParallelism caps the number of goroutines a filter pass fans
// out to. Values below 1 mean one goroutine per CPU.
func WithMaxParallelism(n int) Option {
	return func(o *options) {
		o.maxParallelism = n
	}
}

// WithClock injects the time source used by date interval operators.
// Useful for tests; defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:          codec.Default,
		compression:    snapshot.None{},
		logger:         NoopLogger(),
		maxParallelism: runtime.GOMAXPROCS(0),
		now:            time.Now,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
