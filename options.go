package agentgate

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flexigpt/agentgate-go/fscatalog"
	"github.com/flexigpt/agentgate-go/spec"
)

type Option func(*Runtime) error

func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) error {
		r.logger = l
		return nil
	}
}

// WithCatalog sets the skill catalog. Required (directly or via
// WithSkillsDir).
func WithCatalog(c spec.Catalog) Option {
	return func(r *Runtime) error {
		if c == nil {
			return errors.New("nil catalog")
		}
		r.catalog = c
		return nil
	}
}

// WithSkillsDir is shorthand for WithCatalog(fscatalog.New(dir)).
func WithSkillsDir(dir string) Option {
	return func(r *Runtime) error {
		c, err := fscatalog.New(dir)
		if err != nil {
			return err
		}
		r.catalog = c
		return nil
	}
}

// WithSearcher sets the metasearch backend used to plan research batches.
func WithSearcher(s spec.Searcher) Option {
	return func(r *Runtime) error {
		if s == nil {
			return errors.New("nil searcher")
		}
		r.searcher = s
		return nil
	}
}

// WithBrowserEngine sets the factory producing one browser engine per
// research call. A factory rather than an instance: the engine's
// lifetime is the batch, started and stopped by the pipeline.
func WithBrowserEngine(newEngine func() (spec.BrowserEngine, error)) Option {
	return func(r *Runtime) error {
		if newEngine == nil {
			return errors.New("nil browser engine factory")
		}
		r.newEngine = newEngine
		return nil
	}
}

func WithEmbedder(e spec.Embedder) Option {
	return func(r *Runtime) error {
		if e == nil {
			return errors.New("nil embedder")
		}
		r.embedder = e
		return nil
	}
}

// WithFetchConcurrency bounds how many pages of one research batch are
// fetched at once.
func WithFetchConcurrency(n int) Option {
	return func(r *Runtime) error {
		if n <= 0 {
			return fmt.Errorf("fetch concurrency must be positive, got %d", n)
		}
		r.fetchConcurrency = n
		return nil
	}
}

// WithSettleDelay sets how long a fetched page is left to render dynamic
// content before extraction. Always bounded by the per-page timeout.
func WithSettleDelay(d time.Duration) Option {
	return func(r *Runtime) error {
		if d <= 0 {
			return fmt.Errorf("settle delay must be positive, got %v", d)
		}
		r.settleDelay = d
		return nil
	}
}

// WithPerPageTimeout bounds a single page fetch end to end.
func WithPerPageTimeout(d time.Duration) Option {
	return func(r *Runtime) error {
		if d <= 0 {
			return fmt.Errorf("per-page timeout must be positive, got %v", d)
		}
		r.perPageTimeout = d
		return nil
	}
}

func WithSessionTTL(ttl time.Duration) Option {
	return func(r *Runtime) error {
		r.sessions.SetTTL(ttl)
		return nil
	}
}

func WithMaxSessions(maxSessions int) Option {
	return func(r *Runtime) error {
		r.sessions.SetMaxSessions(maxSessions)
		return nil
	}
}
