package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Source is the read side of a live catalog. *Store satisfies it.
type Source interface {
	List(opts ListOptions) ([]Entry, error)
}

// Origin tells callers which table a snapshot came from.
type Origin string

const (
	OriginLive   Origin = "live"
	OriginStatic Origin = "static"
)

// Snapshot is the catalog as it was when fetched.
type Snapshot struct {
	Entries []Entry `json:"entries"`
	Origin  Origin  `json:"origin"`
}

// Provider hands out whichever catalog is currently available: the live
// table when it has rows, otherwise the static fallback. It never fails;
// a broken live source is logged and the fallback is served instead.
//
// Concurrent callers share one in-flight fetch. The result is kept until
// Invalidate is called.
type Provider struct {
	live   Source
	logger *zap.Logger

	group singleflight.Group

	mu       sync.RWMutex
	fallback []Entry
	cached   *Snapshot
	gen      uint64
}

// NewProvider creates a Provider. live may be nil when no database is
// configured; fallback is the static table injected by the caller.
func NewProvider(live Source, fallback []Entry, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		live:     live,
		logger:   logger,
		fallback: cloneEntries(fallback),
	}
}

// Snapshot returns the current catalog and its origin. Callers receive
// their own copy of the entries.
func (p *Provider) Snapshot(ctx context.Context) Snapshot {
	p.mu.RLock()
	cached, gen := p.cached, p.gen
	p.mu.RUnlock()
	if cached != nil {
		return copySnapshot(*cached)
	}

	ch := p.group.DoChan("catalog", func() (any, error) {
		snap := p.fetch()
		p.mu.Lock()
		if p.gen == gen {
			p.cached = &snap
		}
		p.mu.Unlock()
		return snap, nil
	})

	select {
	case res := <-ch:
		return copySnapshot(res.Val.(Snapshot))
	case <-ctx.Done():
		// The caller gave up waiting; serve the fallback rather than nothing.
		p.mu.RLock()
		defer p.mu.RUnlock()
		return Snapshot{Entries: cloneEntries(p.fallback), Origin: OriginStatic}
	}
}

// Entries is Snapshot without the origin.
func (p *Provider) Entries(ctx context.Context) []Entry {
	return p.Snapshot(ctx).Entries
}

// Invalidate drops the memoized snapshot; the next call refetches.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	p.cached = nil
	p.gen++
	p.mu.Unlock()
	p.group.Forget("catalog")
}

// SetFallback swaps the static table and invalidates the snapshot.
func (p *Provider) SetFallback(entries []Entry) {
	p.mu.Lock()
	p.fallback = cloneEntries(entries)
	p.mu.Unlock()
	p.Invalidate()
}

func (p *Provider) fetch() Snapshot {
	p.mu.RLock()
	fallback := cloneEntries(p.fallback)
	p.mu.RUnlock()

	if p.live == nil {
		return Snapshot{Entries: fallback, Origin: OriginStatic}
	}

	entries, err := p.live.List(ListOptions{})
	if err != nil {
		p.logger.Warn("live catalog unavailable, serving static fallback", zap.Error(err))
		return Snapshot{Entries: fallback, Origin: OriginStatic}
	}
	if len(entries) == 0 {
		p.logger.Debug("live catalog is empty, serving static fallback")
		return Snapshot{Entries: fallback, Origin: OriginStatic}
	}

	p.logger.Debug("live catalog loaded", zap.Int("services", len(entries)))
	return Snapshot{Entries: entries, Origin: OriginLive}
}

func copySnapshot(s Snapshot) Snapshot {
	return Snapshot{Entries: cloneEntries(s.Entries), Origin: s.Origin}
}

func cloneEntries(in []Entry) []Entry {
	out := make([]Entry, len(in))
	copy(out, in)
	return out
}
