package domain

// ForecastPoint is one entry of the merged actuals+projection series.
// Exactly one of Actual/Projected is set, never both: historical points
// carry only Actual, projected points only Projected. The JSON keys match
// the chart's two series so the frontend can plot them without
// interpolation.
type ForecastPoint struct {
	Date      string   `json:"Date"` // YYYY-MM-DD
	Actual    *float64 `json:"Revenue"`
	Projected *float64 `json:"Forecast"`
}
