package domain

// Response types served by the BFF's own HTTP surface. Each view is built
// from that view's own polled copy of the upstream state; views never share
// mutable references.

// ViewMeta reports the freshness of a polled view. Stale means the last
// poll cycle failed and the data shown is the previous good value.
type ViewMeta struct {
	LastUpdated string `json:"last_updated"` // RFC3339, zero value "" before first poll
	Stale       bool   `json:"stale"`
}

// DashboardData is the live dashboard view: the raw snapshot plus freshness.
type DashboardData struct {
	Snapshot *Snapshot `json:"snapshot"`
	Meta     ViewMeta  `json:"meta"`
}

// GoalProgress is the monthly revenue goal tracker.
type GoalProgress struct {
	Goal           float64 `json:"goal"`
	CurrentRevenue float64 `json:"current_revenue"`
	Ratio          float64 `json:"ratio"` // 0..1, capped at 1
	Shortfall      float64 `json:"shortfall"`
	Achieved       bool    `json:"achieved"`
}

// StrategyData is the strategy hub view: forecast series, goal progress and
// the comparative aggregates.
type StrategyData struct {
	Forecast []ForecastPoint `json:"forecast"`
	Goal     GoalProgress    `json:"goal"`
	Regions  []RegionSales   `json:"regions"`
	Channels []ChannelSales  `json:"channels"`
	Meta     ViewMeta        `json:"meta"`
}

// StatusCounts is the per-status bucket tally for the summary tiles.
type StatusCounts struct {
	Total      int `json:"total"`
	InStock    int `json:"in_stock"`
	LowStock   int `json:"low_stock"`
	OutOfStock int `json:"out_of_stock"`
}

// InventoryData is the inventory view: the available/unavailable partition
// plus the summary counts. The partition is exhaustive and disjoint.
type InventoryData struct {
	Available   []InventoryItem `json:"available"`
	Unavailable []InventoryItem `json:"unavailable"`
	Counts      StatusCounts    `json:"counts"`
	Meta        ViewMeta        `json:"meta"`
}

// InsightReport is the privileged executive summary export.
type InsightReport struct {
	ReportID    string       `json:"report_id"`
	GeneratedAt string       `json:"generated_at"`
	GeneratedBy string       `json:"generated_by"`
	Goal        GoalProgress `json:"goal"`
	Summary     string       `json:"summary"`
	Sections    []string     `json:"sections"`
}

// SyncMetrics is a snapshot of the sync layer's counters for
// GET /v1/metrics/sync.
type SyncMetrics struct {
	PollCycles       int64   `json:"poll_cycles"`
	PollFailures     int64   `json:"poll_failures"`
	StaleDiscards    int64   `json:"stale_discards"`
	Mutations        int64   `json:"mutations"`
	MutationFailures int64   `json:"mutation_failures"`
	CacheHitRate     float64 `json:"cache_hit_rate"`
}
