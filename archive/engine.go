// Package archive implements the LogRescuer content-deduplicating archive
// engine: the pipeline that discovers files, fingerprints them in
// parallel, partitions them into unique-content representatives and
// duplicates, streams codec-compressed representatives into a single-file
// container, and reverses the process on extraction with hash
// verification.
package archive

import (
	"fmt"

	"github.com/peczakax/logrescuer/internal/codec"
)

// Engine orchestrates the Compress and Extract pipelines. An Engine is
// safe to reuse across multiple runs; each run is independent and holds
// its own mutexes for the duration of that run only.
type Engine struct {
	cfg config
}

// New builds an Engine. Without options it uses the process-wide worker
// pool singleton, a no-op Observer, the default slog logger, and skips
// zero-length files during compression.
func New(opts ...Option) *Engine {
	cfg := newConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{cfg: cfg}
}

// ResolveCodecTag returns the codec tag set with WithCodec, falling back
// to the factory's default when none was set explicitly. Exposed so a
// caller can report or log the effective codec and pass it to Compress.
func (e *Engine) ResolveCodecTag() (codec.Tag, error) {
	if e.cfg.hasExplicit {
		return e.cfg.defaultTag, nil
	}
	tag, err := e.cfg.factory.DefaultTag()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return tag, nil
}
