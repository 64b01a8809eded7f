package domain

// Stock status values as the upstream reports them. The status is derived
// server-side from remaining vs initial stock; the BFF displays it verbatim.
const (
	StatusInStock    = "In Stock"
	StatusLowStock   = "Low Stock"
	StatusOutOfStock = "Out of Stock"
)

// InventoryItem is one product's stock position. `remaining` is maintained
// server-side (initial_stock - sold); it is authoritative and not monotonic
// between polls, since a restock raises remaining and initial_stock.
type InventoryItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Sold         int    `json:"sold"`
	Remaining    int    `json:"remaining"`
	InitialStock int    `json:"initial_stock"`
	Status       string `json:"status"`
}

// RestockRequest is the body for POST /api/inventory/restock upstream.
type RestockRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// SubmissionResult acknowledges an accepted mutation. The item's new stock
// figures are deliberately absent: the authoritative state arrives via the
// refresh the submission triggers.
type SubmissionResult struct {
	SubmissionID string `json:"submission_id"`
	ProductID    string `json:"product_id"`
	Quantity     int    `json:"quantity"`
}
