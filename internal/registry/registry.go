// Package registry maintains the active schema snapshot and the set of
// versioned snapshot sources it can be switched between.
//
// Snapshots are immutable; the active one is published through an atomic
// pointer so analysis calls running on other goroutines always observe one
// complete, internally consistent snapshot. A version switch either fully
// replaces the active snapshot or leaves it untouched.
package registry

import (
	"embed"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/stashlight/stashlight/internal/schema"
)

//go:embed data
var embeddedData embed.FS

// ErrVersionNotFound is returned by Use when the requested version has no
// snapshot source.
var ErrVersionNotFound = errors.New("schema version not found")

// Registry owns the active schema snapshot and its available versions.
type Registry struct {
	mu      sync.Mutex // serializes Use against concurrent switches
	sources map[string]snapshotSource
	order   []string // version strings, lexicographically ascending
	current atomic.Pointer[schema.Snapshot]
}

// Option configures registry construction.
type Option func(*config)

type config struct {
	dirs       []string
	skipEmbeds bool
}

// WithDir adds a directory of snapshot files (*.json, *.yaml, *.yml) as an
// additional source. Versions found in directories shadow embedded ones.
func WithDir(path string) Option {
	return func(c *config) {
		c.dirs = append(c.dirs, path)
	}
}

// WithoutEmbedded skips the compiled-in snapshots. Used in tests.
func WithoutEmbedded() Option {
	return func(c *config) {
		c.skipEmbeds = true
	}
}

// New builds a registry from the embedded snapshots plus any configured
// directories, then activates the lexicographically highest version. When no
// source loads, the registry starts with an empty snapshot rather than
// failing: an empty schema disables semantic checks but keeps the editor
// responsive.
func New(opts ...Option) *Registry {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &Registry{sources: make(map[string]snapshotSource)}

	if !cfg.skipEmbeds {
		for _, src := range scanFS(embeddedData, "data") {
			r.sources[src.version] = src
		}
	}
	for _, dir := range cfg.dirs {
		for _, src := range scanDir(dir) {
			r.sources[src.version] = src
		}
	}

	r.order = make([]string, 0, len(r.sources))
	for v := range r.sources {
		r.order = append(r.order, v)
	}
	sort.Strings(r.order)

	r.current.Store(schema.Empty())
	if len(r.order) > 0 {
		// Best effort: fall back to the empty snapshot on a broken source.
		_ = r.Use(r.order[len(r.order)-1])
	}

	return r
}

// Versions returns all available version strings in ascending order.
func (r *Registry) Versions() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Current returns the active snapshot. The returned snapshot is immutable
// and safe to read after a concurrent switch; callers should not retain it
// beyond a single operation.
func (r *Registry) Current() *schema.Snapshot {
	return r.current.Load()
}

// CurrentVersion returns the version string of the active snapshot.
func (r *Registry) CurrentVersion() string {
	return r.Current().Version()
}

// Use switches the active snapshot to the named version. On any failure the
// previously active snapshot stays in place.
func (r *Registry) Use(version string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	src, ok := r.sources[version]
	if !ok {
		return fmt.Errorf("%w: %q", ErrVersionNotFound, version)
	}

	data, err := src.load()
	if err != nil {
		return fmt.Errorf("load schema version %q: %w", version, err)
	}
	if data.Version == "" {
		data.Version = version
	}

	r.current.Store(schema.NewSnapshot(data))
	return nil
}
