// Package forecast derives a short-horizon revenue projection from a
// trailing window of daily trend points. It is a deliberately naive
// compounding-growth heuristic, not a statistical model: the projection for
// day N is the window mean scaled by (1 + N*growth).
package forecast

import (
	"time"

	"github.com/abiatech/salesdeck-bff-go/internal/domain"
)

const dateLayout = "2006-01-02"

// Params configures a projection. The growth rate and window are demo
// constants in the source system; here they are injected from config.
type Params struct {
	Window      int
	Horizon     int
	DailyGrowth float64
	// Today anchors the projection when history is empty. Injectable so
	// tests are deterministic.
	Today func() time.Time
}

// DefaultParams returns the classic 7-day window, 3-day horizon, 2%/day
// growth configuration.
func DefaultParams() Params {
	return Params{Window: 7, Horizon: 3, DailyGrowth: 0.02, Today: time.Now}
}

// Project returns exactly p.Horizon projected points, each dated one
// calendar day after the previous, starting the day after the last
// historical date. An empty history yields zero-valued projections anchored
// on p.Today, never an error.
func Project(history []domain.TrendPoint, p Params) []domain.ForecastPoint {
	if p.Horizon <= 0 {
		return nil
	}

	window := trailingWindow(history, p.Window)

	mean := 0.0
	if len(window) > 0 {
		sum := 0.0
		for _, pt := range window {
			sum += pt.Revenue
		}
		mean = sum / float64(len(window))
	}

	base := baseDate(window, p)

	points := make([]domain.ForecastPoint, 0, p.Horizon)
	for step := 1; step <= p.Horizon; step++ {
		projected := mean * (1 + float64(step)*p.DailyGrowth)
		points = append(points, domain.ForecastPoint{
			Date:      base.AddDate(0, 0, step).Format(dateLayout),
			Projected: &projected,
		})
	}
	return points
}

// Series merges the trailing window of actuals with the projection into one
// date-ordered sequence with two sparse series: historical points carry only
// Actual, projected points only Projected.
func Series(history []domain.TrendPoint, p Params) []domain.ForecastPoint {
	window := trailingWindow(history, p.Window)
	projection := Project(history, p)

	series := make([]domain.ForecastPoint, 0, len(window)+len(projection))
	for _, pt := range window {
		actual := pt.Revenue
		series = append(series, domain.ForecastPoint{
			Date:   pt.Date,
			Actual: &actual,
		})
	}
	return append(series, projection...)
}

// trailingWindow returns at most the last n points of history.
func trailingWindow(history []domain.TrendPoint, n int) []domain.TrendPoint {
	if n <= 0 || len(history) == 0 {
		return nil
	}
	if len(history) > n {
		return history[len(history)-n:]
	}
	return history
}

// baseDate is the last historical date, or today when there is no history.
// An unparseable trailing date also falls back to today so a malformed
// upstream row cannot break the projection.
func baseDate(window []domain.TrendPoint, p Params) time.Time {
	if len(window) > 0 {
		if d, err := time.Parse(dateLayout, window[len(window)-1].Date); err == nil {
			return d
		}
	}
	today := time.Now
	if p.Today != nil {
		today = p.Today
	}
	return today().UTC().Truncate(24 * time.Hour)
}
