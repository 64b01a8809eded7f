package view

import "github.com/abiatech/salesdeck-bff-go/internal/domain"

// GoalProgress computes the revenue goal tracker: ratio capped at 100% and
// the remaining shortfall (never negative). A non-positive goal yields a
// zero ratio rather than dividing by zero.
func GoalProgress(currentRevenue, goal float64) domain.GoalProgress {
	ratio := 0.0
	if goal > 0 {
		ratio = currentRevenue / goal
		if ratio > 1 {
			ratio = 1
		}
	}

	shortfall := goal - currentRevenue
	if shortfall < 0 {
		shortfall = 0
	}

	return domain.GoalProgress{
		Goal:           goal,
		CurrentRevenue: currentRevenue,
		Ratio:          ratio,
		Shortfall:      shortfall,
		Achieved:       ratio >= 1,
	}
}
