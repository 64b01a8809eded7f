package domain

// Wire types for the sales telemetry API. Field names follow the upstream
// JSON contract exactly; the aggregates are computed server-side and the
// BFF never recomputes them.

// Snapshot is one immutable poll result bundling all aggregate metrics.
// Trend points arrive date-ordered ascending; a re-fetch only appends or
// extends, never reorders.
type Snapshot struct {
	KPI      KPI            `json:"kpi"`
	Trends   []TrendPoint   `json:"trends"`
	Channels []ChannelSales `json:"channels"`
	Regions  []RegionSales  `json:"regions"`
	Products []ProductStats `json:"products"`
}

// KPI holds the headline figures shown on the dashboard tiles.
type KPI struct {
	TotalRevenue      float64 `json:"total_revenue"`
	GrossProfit       float64 `json:"gross_profit"`
	ProfitMargin      float64 `json:"profit_margin"`
	PipelineStatus    string  `json:"pipeline_status"` // "Active" | "Inactive"
	DataQualityAlerts int     `json:"data_quality_alerts"`
}

// TrendPoint is one day of aggregated revenue and profit.
type TrendPoint struct {
	Date    string  `json:"Date"` // YYYY-MM-DD
	Revenue float64 `json:"Revenue"`
	Profit  float64 `json:"Profit"`
}

// ChannelSales aggregates revenue per sales channel.
type ChannelSales struct {
	Channel    string  `json:"Channel"`
	TotalPrice float64 `json:"TotalPrice"`
}

// RegionSales aggregates revenue per region.
type RegionSales struct {
	Region     string  `json:"Region"`
	TotalPrice float64 `json:"TotalPrice"`
}

// ProductStats carries per-product sales, profit and margin for the
// profitability scatter.
type ProductStats struct {
	ProductID   string  `json:"ProductID"`
	TotalSales  float64 `json:"TotalSales"`
	TotalProfit float64 `json:"Totalprofit"`
	Margin      float64 `json:"Margin"`
}

// BestSeller is one entry of the top-products list on the landing page.
type BestSeller struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}
