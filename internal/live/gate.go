package live

import (
	"sync"

	"github.com/abiatech/salesdeck-bff-go/internal/domain"
)

// Gate enforces at-most-one-in-flight mutation per logical target. A second
// attempt while one is outstanding is rejected, not queued; the caller must
// resubmit after the first settles.
type Gate struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewGate creates an empty gate.
func NewGate() *Gate {
	return &Gate{inflight: make(map[string]struct{})}
}

// Begin claims the target. Returns ErrMutationInFlight if a submission for
// the same target is already outstanding.
func (g *Gate) Begin(target string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inflight[target]; busy {
		return &domain.ErrMutationInFlight{Target: target}
	}
	g.inflight[target] = struct{}{}
	return nil
}

// End releases the target. Safe to call for a target that was never claimed.
func (g *Gate) End(target string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.inflight, target)
}
