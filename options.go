//go:build windows
// +build windows

package wintree

import (
	"context"
	"runtime"

	"github.com/bali3355/Fast-Folder-Exploring-with-Security/wtlog"
)

// Option configures [Enumerate] and [EnumeratePaths]. Options are applied
// in order; later options override earlier ones for scalar fields.
type Option func(*Options)

// Options configures a walk. The zero value is not directly usable; build
// one with [WithSearchFor] etc., or load one from a config.Profile via
// Profile.Options(). Options are read-only for the duration of a walk.
type Options struct {
	// SearchFor selects which entry kinds are emitted. Default [SearchFiles].
	SearchFor SearchFor
	// IncludeInherited includes DACL entries inherited from ancestors.
	// Default true.
	IncludeInherited bool
	// ResolveOwner enables owner extraction. Default true.
	ResolveOwner bool
	// UseNativeOwner selects the native GetFileSecurity owner path over the
	// managed fallback as the first attempt. Default true.
	UseNativeOwner bool
	// MaxDepth caps recursion. 0 means root only. Negative means unbounded
	// (the default).
	MaxDepth int
	// SearchPattern is the wildcard passed to FindFirstFile. Default "*".
	SearchPattern string
	// Cancellation is checked cooperatively at task-pop and between
	// children within a directory. A nil context.Context is treated as
	// context.Background() (never canceled).
	Cancellation context.Context
	// Workers is the number of traversal workers. Values <= 0 use
	// DefaultWorkers().
	Workers int
	// Log receives diagnostic events. Default is a no-op logger.
	Log wtlog.Logger
	// SidCache is shared across this walk (and optionally others). A nil
	// value gets a fresh, walk-scoped cache.
	SidCache *SidCache
}

// WithSearchFor sets which entry kinds are emitted.
func WithSearchFor(s SearchFor) Option {
	return func(o *Options) { o.SearchFor = s }
}

// WithIncludeInherited controls whether inherited DACL entries are included.
func WithIncludeInherited(include bool) Option {
	return func(o *Options) { o.IncludeInherited = include }
}

// WithResolveOwner controls whether owner resolution is attempted.
func WithResolveOwner(resolve bool) Option {
	return func(o *Options) { o.ResolveOwner = resolve }
}

// WithUseNativeOwner controls whether the native GetFileSecurity owner path
// is tried before the managed fallback.
func WithUseNativeOwner(native bool) Option {
	return func(o *Options) { o.UseNativeOwner = native }
}

// WithMaxDepth caps recursion. 0 means root only. Negative means unbounded.
func WithMaxDepth(depth int) Option {
	return func(o *Options) { o.MaxDepth = depth }
}

// WithSearchPattern sets the FindFirstFile wildcard. Empty defaults to "*".
func WithSearchPattern(pattern string) Option {
	return func(o *Options) {
		if pattern == "" {
			pattern = "*"
		}

		o.SearchPattern = pattern
	}
}

// WithCancellation sets a cooperative cancellation source.
func WithCancellation(ctx context.Context) Option {
	return func(o *Options) { o.Cancellation = ctx }
}

// WithWorkers sets the traversal worker count. Values <= 0 use
// [DefaultWorkers].
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithLogger sets the diagnostic logger. A nil logger is replaced with
// wtlog.Nop() when options are applied.
func WithLogger(log wtlog.Logger) Option {
	return func(o *Options) { o.Log = log }
}

// WithSidCache shares an existing [SidCache] across this and other walks.
// Pass nil (the default) to have each walk allocate its own cache.
func WithSidCache(c *SidCache) Option {
	return func(o *Options) { o.SidCache = c }
}

// DefaultWorkers returns the default worker-count resolution used when
// [WithWorkers] is not set: ceil(1.5 x logical CPU count), per spec §4.3.
func DefaultWorkers() int {
	n := runtime.NumCPU()

	return (n*3 + 1) / 2
}

const maxWorkers = 512

// applyOptions merges option values, applying defaults for anything unset.
func applyOptions(opts []Option) Options {
	cfg := Options{
		SearchFor:        SearchFiles,
		IncludeInherited: true,
		ResolveOwner:     true,
		UseNativeOwner:   true,
		MaxDepth:         -1,
		SearchPattern:    "*",
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.SearchPattern == "" {
		cfg.SearchPattern = "*"
	}

	if cfg.Cancellation == nil {
		cfg.Cancellation = context.Background()
	}

	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers()
	}

	if cfg.Workers > maxWorkers {
		cfg.Workers = maxWorkers
	}

	if cfg.Log == nil {
		cfg.Log = wtlog.Nop()
	}

	if cfg.SidCache == nil {
		cfg.SidCache = NewSidCache()
	}

	return cfg
}
