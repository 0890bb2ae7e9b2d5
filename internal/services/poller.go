package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Poller owns the locally cached view model for one resource type and keeps
// it within bounded staleness of the ledger. One poller is shared by every
// screen that needs the resource; subscribers are reference-counted so the
// ticker runs only while someone is watching.
//
// Concurrency rules:
//   - overlapping ticks never start a second fetch against the same resource;
//     callers join the in-flight fetch (skip-if-busy)
//   - every fetch carries a monotonic sequence number taken at start; a
//     completed fetch is applied only if nothing newer has been applied, so
//     out-of-order completions can never roll the snapshot backwards
//   - a failed fetch keeps the last good snapshot and ticking continues
type Poller[T any] struct {
	name     string
	interval time.Duration
	fetch    func(ctx context.Context) (T, error)
	group    singleflight.Group
	seq      atomic.Uint64
	log      *logrus.Entry

	mu       sync.Mutex
	snapshot T
	hasData  bool
	applied  uint64
	lastSync time.Time
	refs     int
	cancel   context.CancelFunc
}

// NewPoller creates a poller for one resource type.
func NewPoller[T any](name string, interval time.Duration, fetch func(ctx context.Context) (T, error), logger *logrus.Logger) *Poller[T] {
	return &Poller[T]{
		name:     name,
		interval: interval,
		fetch:    fetch,
		log:      logger.WithField("poller", name),
	}
}

// Subscribe registers interest in the resource and returns a release
// function. The first subscriber starts the polling loop; releasing the last
// one cancels it, abandoning any in-flight fetch.
func (p *Poller[T]) Subscribe() (release func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.refs++
	if p.refs == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		p.cancel = cancel
		go p.run(ctx)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			p.refs--
			if p.refs == 0 && p.cancel != nil {
				p.cancel()
				p.cancel = nil
			}
		})
	}
}

func (p *Poller[T]) run(ctx context.Context) {
	p.log.WithField("interval", p.interval).Info("polling started")

	if err := p.refresh(ctx, false); err != nil {
		p.log.WithError(err).Warn("initial sync failed, serving stale state until next tick")
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("polling stopped")
			return
		case <-ticker.C:
			if err := p.refresh(ctx, false); err != nil {
				// Non-fatal: the previous snapshot stays visible and the
				// loop keeps ticking.
				p.log.WithError(err).Warn("sync tick failed, retaining last good view")
			}
		}
	}
}

// Refresh forces one authoritative fetch, bypassing an already in-flight
// fetch that may have started before the caller's write landed.
func (p *Poller[T]) Refresh(ctx context.Context) error {
	return p.refresh(ctx, true)
}

func (p *Poller[T]) refresh(ctx context.Context, force bool) error {
	if force {
		// Detach from any in-flight fetch so the next one starts fresh;
		// sequence gating resolves whichever completes last.
		p.group.Forget(p.name)
	}

	_, err, _ := p.group.Do(p.name, func() (interface{}, error) {
		seq := p.seq.Add(1)
		value, err := p.fetch(ctx)
		if err != nil {
			return nil, err
		}
		if ctx.Err() != nil {
			// The owning loop was torn down while the fetch was in flight;
			// discard instead of mutating state nobody watches.
			return nil, ctx.Err()
		}
		p.apply(seq, value)
		return nil, nil
	})
	return err
}

// apply installs a snapshot wholesale unless a newer fetch already did.
func (p *Poller[T]) apply(seq uint64, value T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if seq <= p.applied {
		p.log.WithField("seq", seq).Debug("discarding stale fetch result")
		return
	}
	p.applied = seq
	p.snapshot = value
	p.hasData = true
	p.lastSync = time.Now()
}

// Snapshot returns the current view model, its sync time, and whether a
// successful fetch has happened yet.
func (p *Poller[T]) Snapshot() (T, time.Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot, p.lastSync, p.hasData
}

// SnapshotOrFetch serves the cached snapshot when one exists and falls back
// to a blocking fetch for cold starts.
func (p *Poller[T]) SnapshotOrFetch(ctx context.Context) (T, error) {
	if value, _, ok := p.Snapshot(); ok {
		return value, nil
	}
	if err := p.refresh(ctx, false); err != nil {
		var zero T
		return zero, err
	}
	value, _, _ := p.Snapshot()
	return value, nil
}
