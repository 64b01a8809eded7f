package live_test

import (
	"errors"
	"testing"

	"github.com/abiatech/salesdeck-bff-go/internal/domain"
	"github.com/abiatech/salesdeck-bff-go/internal/live"
)

func TestGate_SingleFlight(t *testing.T) {
	g := live.NewGate()

	if err := g.Begin("restock:p1"); err != nil {
		t.Fatalf("first claim should succeed, got %v", err)
	}

	err := g.Begin("restock:p1")
	var inFlight *domain.ErrMutationInFlight
	if !errors.As(err, &inFlight) {
		t.Fatalf("expected ErrMutationInFlight, got %v", err)
	}
	if inFlight.Target != "restock:p1" {
		t.Errorf("expected target restock:p1, got %s", inFlight.Target)
	}

	g.End("restock:p1")
	if err := g.Begin("restock:p1"); err != nil {
		t.Errorf("claim after release should succeed, got %v", err)
	}
}

func TestGate_IndependentTargets(t *testing.T) {
	g := live.NewGate()

	if err := g.Begin("restock:p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Begin("restock:p2"); err != nil {
		t.Errorf("a different target must not be blocked, got %v", err)
	}
	if err := g.Begin("pipeline"); err != nil {
		t.Errorf("a different target must not be blocked, got %v", err)
	}
}

func TestGate_EndUnclaimed(t *testing.T) {
	g := live.NewGate()
	g.End("never-claimed") // must not panic
}
