// Package view holds the pure, stateless functions that shape a polled
// snapshot into presentation-ready subsets. No side effects, no I/O.
package view

import "github.com/abiatech/salesdeck-bff-go/internal/domain"

// PartitionInventory splits items into available (status other than
// Out of Stock) and unavailable (Out of Stock). The partition is exhaustive
// and disjoint: every item lands in exactly one bucket.
func PartitionInventory(items []domain.InventoryItem) (available, unavailable []domain.InventoryItem) {
	available = make([]domain.InventoryItem, 0, len(items))
	unavailable = make([]domain.InventoryItem, 0)
	for _, item := range items {
		if item.Status == domain.StatusOutOfStock {
			unavailable = append(unavailable, item)
		} else {
			available = append(available, item)
		}
	}
	return available, unavailable
}

// CountByStatus tallies items per status bucket for the summary tiles.
// Unknown statuses count toward Total only; the upstream owns the enum.
func CountByStatus(items []domain.InventoryItem) domain.StatusCounts {
	counts := domain.StatusCounts{Total: len(items)}
	for _, item := range items {
		switch item.Status {
		case domain.StatusInStock:
			counts.InStock++
		case domain.StatusLowStock:
			counts.LowStock++
		case domain.StatusOutOfStock:
			counts.OutOfStock++
		}
	}
	return counts
}
