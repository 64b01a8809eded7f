// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/abiatech/salesdeck-bff-go/internal/domain"
)

// SnapshotFetcher retrieves the full telemetry snapshot.
type SnapshotFetcher interface {
	FetchSnapshot(ctx context.Context) (*domain.Snapshot, error)
}

// InventoryFetcher retrieves the current inventory list.
type InventoryFetcher interface {
	FetchInventory(ctx context.Context) ([]domain.InventoryItem, error)
}

// Restocker submits a restock order for a product.
type Restocker interface {
	Restock(ctx context.Context, req *domain.RestockRequest) error
}

// PipelineController reads and writes the data-generation pipeline switch.
// SetPipelineStatus always carries the desired state, never a toggle
// instruction; the returned state is the server's authoritative answer.
type PipelineController interface {
	PipelineStatus(ctx context.Context) (*domain.PipelineState, error)
	SetPipelineStatus(ctx context.Context, desired bool) (*domain.PipelineState, error)
}

// Authenticator delegates credential verification to the upstream.
type Authenticator interface {
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
}

// BestSellerFetcher retrieves the top-products list.
type BestSellerFetcher interface {
	FetchBestSellers(ctx context.Context) ([]domain.BestSeller, error)
}

// SalesAPI bundles every upstream operation the BFF consumes.
type SalesAPI interface {
	SnapshotFetcher
	InventoryFetcher
	Restocker
	PipelineController
	Authenticator
	BestSellerFetcher
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
