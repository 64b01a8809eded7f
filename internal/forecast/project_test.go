package forecast_test

import (
	"math"
	"testing"
	"time"

	"github.com/abiatech/salesdeck-bff-go/internal/domain"
	"github.com/abiatech/salesdeck-bff-go/internal/forecast"
)

func fixedToday() time.Time {
	return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
}

func testParams() forecast.Params {
	return forecast.Params{Window: 7, Horizon: 3, DailyGrowth: 0.02, Today: fixedToday}
}

func trend(date string, revenue float64) domain.TrendPoint {
	return domain.TrendPoint{Date: date, Revenue: revenue, Profit: revenue * 0.3}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestProject_GrowthMultipliers(t *testing.T) {
	// Seven days averaging 150: projections are 150*1.02, 150*1.04, 150*1.06.
	history := []domain.TrendPoint{
		trend("2026-08-01", 120),
		trend("2026-08-02", 130),
		trend("2026-08-03", 140),
		trend("2026-08-04", 150),
		trend("2026-08-05", 160),
		trend("2026-08-06", 170),
		trend("2026-08-07", 180),
	}

	points := forecast.Project(history, testParams())
	if len(points) != 3 {
		t.Fatalf("expected 3 projected points, got %d", len(points))
	}

	want := []float64{153, 156, 159}
	for i, p := range points {
		if p.Projected == nil {
			t.Fatalf("point %d: expected projected value, got nil", i)
		}
		if !almostEqual(*p.Projected, want[i]) {
			t.Errorf("point %d: expected %.2f, got %.2f", i, want[i], *p.Projected)
		}
		if p.Actual != nil {
			t.Errorf("point %d: projected point must not carry an actual value", i)
		}
	}
}

func TestProject_DatesFollowHistory(t *testing.T) {
	history := []domain.TrendPoint{
		trend("2026-08-05", 100),
		trend("2026-08-06", 100),
		trend("2026-08-07", 100),
	}

	points := forecast.Project(history, testParams())

	wantDates := []string{"2026-08-08", "2026-08-09", "2026-08-10"}
	for i, p := range points {
		if p.Date != wantDates[i] {
			t.Errorf("point %d: expected date %s, got %s", i, wantDates[i], p.Date)
		}
	}
}

func TestProject_WindowTrimsOlderHistory(t *testing.T) {
	// Ten days; only the last seven (all 200) should feed the mean.
	history := []domain.TrendPoint{
		trend("2026-08-01", 1000),
		trend("2026-08-02", 1000),
		trend("2026-08-03", 1000),
	}
	for day := 4; day <= 10; day++ {
		history = append(history, trend(time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), 200))
	}

	points := forecast.Project(history, testParams())
	if !almostEqual(*points[0].Projected, 204) {
		t.Errorf("expected first projection 204, got %.2f", *points[0].Projected)
	}
}

func TestProject_EmptyHistory(t *testing.T) {
	points := forecast.Project(nil, testParams())
	if len(points) != 3 {
		t.Fatalf("expected 3 points for empty history, got %d", len(points))
	}

	wantDates := []string{"2026-08-31", "2026-09-01", "2026-09-02"}
	for i, p := range points {
		if *p.Projected != 0 {
			t.Errorf("point %d: expected zero projection, got %.2f", i, *p.Projected)
		}
		if p.Date != wantDates[i] {
			t.Errorf("point %d: expected date %s, got %s", i, wantDates[i], p.Date)
		}
	}
}

func TestProject_ZeroHorizon(t *testing.T) {
	p := testParams()
	p.Horizon = 0
	if points := forecast.Project(nil, p); points != nil {
		t.Errorf("expected nil for zero horizon, got %d points", len(points))
	}
}

func TestSeries_SparseDualSeries(t *testing.T) {
	history := []domain.TrendPoint{
		trend("2026-08-06", 100),
		trend("2026-08-07", 200),
	}

	series := forecast.Series(history, testParams())
	if len(series) != 5 {
		t.Fatalf("expected 2 actuals + 3 projections, got %d points", len(series))
	}

	for i, p := range series[:2] {
		if p.Actual == nil || p.Projected != nil {
			t.Errorf("point %d: historical point must carry only an actual value", i)
		}
	}
	for i, p := range series[2:] {
		if p.Projected == nil || p.Actual != nil {
			t.Errorf("point %d: projected point must carry only a projected value", i+2)
		}
	}

	if *series[0].Actual != 100 || *series[1].Actual != 200 {
		t.Errorf("actuals not preserved: %.2f, %.2f", *series[0].Actual, *series[1].Actual)
	}
}
