package archive

import (
	"log/slog"

	"github.com/peczakax/logrescuer/internal/codec"
	"github.com/peczakax/logrescuer/internal/workerpool"
)

// config holds the resolved configuration for a single Engine.
type config struct {
	factory     *codec.Factory
	pool        *workerpool.Pool
	observer    Observer
	logger      *slog.Logger
	skipEmpty   bool
	defaultTag  codec.Tag
	hasExplicit bool
}

func newConfig() config {
	return config{
		factory:   codec.NewFactory(),
		pool:      workerpool.Get(),
		observer:  NoopObserver,
		logger:    slog.Default(),
		skipEmpty: true,
	}
}

// Option configures an Engine. The same option type is shared between
// Compress and Extract: most settings (observer, pool, logger) are
// meaningful to both pipelines.
type Option func(*config)

// WithObserver attaches an Observer to receive per-file and summary events.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithPool overrides the process-wide worker pool singleton with an
// explicitly injected pool, primarily for test isolation.
func WithPool(p *workerpool.Pool) Option {
	return func(c *config) {
		if p != nil {
			c.pool = p
		}
	}
}

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSkipEmptyFiles controls whether zero-length files are skipped during
// the compression scan. Defaults to true.
func WithSkipEmptyFiles(skip bool) Option {
	return func(c *config) {
		c.skipEmpty = skip
	}
}

// WithCodec sets the codec tag that ResolveCodecTag returns; without it,
// ResolveCodecTag returns the factory's first compiled-in codec. Compress
// uses the tag passed to it, not this setting, and Extract reads the codec
// tag from the archive trailer.
func WithCodec(tag codec.Tag) Option {
	return func(c *config) {
		c.defaultTag = tag
		c.hasExplicit = true
	}
}
