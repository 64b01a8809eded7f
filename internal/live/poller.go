// Package live implements the synchronization layer between the BFF's views
// and the remote sales API: a recurring poller with last-good-value
// retention and sequence-ordered application, plus a single-flight gate for
// mutations.
package live

import (
	"context"
	"sync"
	"time"

	"github.com/abiatech/salesdeck-bff-go/internal/domain"
	"github.com/abiatech/salesdeck-bff-go/internal/infra/observability"

	"go.uber.org/zap"
)

// Poller fetches a value on a fixed cadence and retains the last good
// result across failures.
//
// Every dispatched cycle carries a monotonically increasing sequence
// number; a completion whose sequence is lower than the last applied one is
// discarded, so a slow fetch can never overwrite the result of a newer one.
// Stopping prevents future cycles but does not abort a fetch in flight; a
// late completion from a stopped poller is discarded by the liveness check.
type Poller[T any] struct {
	name     string
	fetch    func(ctx context.Context) (T, error)
	interval time.Duration
	logger   *zap.Logger
	metrics  *observability.Metrics

	refresh chan struct{}

	mu          sync.Mutex
	value       T
	hasValue    bool
	lastUpdated time.Time
	lastErr     error
	nextSeq     uint64
	appliedSeq  uint64
	started     bool
	stopped     bool
	fetchCtx    context.Context
	cancelLoop  context.CancelFunc
}

// NewPoller creates a poller for one view. Each view gets its own poller;
// pollers share no state and their cadences are unrelated.
func NewPoller[T any](name string, fetch func(ctx context.Context) (T, error), interval time.Duration, metrics *observability.Metrics, logger *zap.Logger) *Poller[T] {
	return &Poller[T]{
		name:     name,
		fetch:    fetch,
		interval: interval,
		logger:   logger,
		metrics:  metrics,
		refresh:  make(chan struct{}, 1),
	}
}

// Start begins an immediate fetch, then one per interval until Stop.
// Calling Start twice is a no-op.
func (p *Poller[T]) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	// In-flight fetches run on the caller's context, not the loop's, so
	// Stop cannot abort a fetch already dispatched (the liveness check
	// discards its result instead).
	p.fetchCtx = ctx
	loopCtx, cancel := context.WithCancel(ctx)
	p.cancelLoop = cancel
	p.mu.Unlock()

	go p.loop(loopCtx)
}

// Stop cancels all future scheduled fetches. Idempotent. The consuming view
// must call Stop exactly once on teardown, through every exit path.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.stopped = true
	if p.cancelLoop != nil {
		p.cancelLoop()
	}
}

// Refresh requests one out-of-cycle fetch (used after mutations so the
// authoritative state lands without waiting for the next tick). Coalesces
// when a refresh is already pending.
func (p *Poller[T]) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Value returns the last good value; ok is false before the first
// successful fetch.
func (p *Poller[T]) Value() (v T, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value, p.hasValue
}

// Meta reports the view's freshness. Stale means the most recent cycle
// failed (the value shown is the previous good one) or nothing has been
// fetched yet.
func (p *Poller[T]) Meta() domain.ViewMeta {
	p.mu.Lock()
	defer p.mu.Unlock()

	meta := domain.ViewMeta{Stale: p.lastErr != nil || !p.hasValue}
	if p.hasValue {
		meta.LastUpdated = p.lastUpdated.Format(time.RFC3339)
	}
	return meta
}

// LastError returns the soft error of the most recent failed cycle, nil
// after a success.
func (p *Poller[T]) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *Poller[T]) loop(ctx context.Context) {
	p.dispatch()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.dispatch()
		case <-p.refresh:
			p.dispatch()
		}
	}
}

// dispatch launches one fetch cycle with the next sequence number.
func (p *Poller[T]) dispatch() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	seq := p.nextSeq
	p.nextSeq++
	ctx := p.fetchCtx
	p.mu.Unlock()

	go func() {
		v, err := p.fetch(ctx)
		p.apply(seq, v, err)
	}()
}

// apply records a cycle's outcome. Completion order is arbitrary; the
// sequence guard keeps newer state from being overwritten by older cycles.
func (p *Poller[T]) apply(seq uint64, v T, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		p.metrics.IncrPollDiscard(p.name)
		p.logger.Debug("poll completion after stop, discarded",
			zap.String("view", p.name),
			zap.Uint64("seq", seq),
		)
		return
	}

	if p.hasValue && seq < p.appliedSeq {
		p.metrics.IncrPollDiscard(p.name)
		p.logger.Debug("stale poll completion, discarded",
			zap.String("view", p.name),
			zap.Uint64("seq", seq),
			zap.Uint64("applied_seq", p.appliedSeq),
		)
		return
	}

	if err != nil {
		p.lastErr = err
		p.metrics.IncrPollCycle(p.name, "failure")
		p.logger.Warn("poll cycle failed, retaining previous value",
			zap.String("view", p.name),
			zap.Uint64("seq", seq),
			zap.Bool("have_previous", p.hasValue),
			zap.Error(err),
		)
		return
	}

	p.value = v
	p.hasValue = true
	p.appliedSeq = seq
	p.lastUpdated = time.Now()
	p.lastErr = nil
	p.metrics.IncrPollCycle(p.name, "success")
}
