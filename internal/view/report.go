package view

import (
	"fmt"
	"time"

	"github.com/abiatech/salesdeck-bff-go/internal/domain"

	"github.com/google/uuid"
)

// InsightReport builds the executive summary served by the privileged
// report endpoint. The narrative follows the goal tracker: congratulation
// when the target is met, a gap-closing recommendation otherwise.
func InsightReport(goal domain.GoalProgress, generatedBy string, now time.Time) domain.InsightReport {
	var summary string
	if goal.Achieved {
		summary = "Goal exceeded. We have surpassed the monthly revenue target. " +
			"Recommendation: analyze top-performing channels to replicate this success " +
			"next month and review inventory to maintain momentum."
	} else {
		summary = fmt.Sprintf(
			"Attention required. We are trailing the monthly revenue target by $%.2f. "+
				"Recommendation: focus on high-margin products and underperforming regions, "+
				"and consider a targeted promotion to close the gap before month-end.",
			goal.Shortfall)
	}

	sections := []string{
		"Sales Forecasting & Future Outlook: the projection extends the trailing revenue " +
			"window forward; an upward trend indicates positive momentum and inventory " +
			"needs can be anticipated days in advance.",
		fmt.Sprintf("Performance Against Targets: the monthly revenue target is $%.2f and "+
			"%.1f%% of it has been achieved.", goal.Goal, goal.Ratio*100),
		"Regional & Channel Analysis: the comparative aggregates show where revenue " +
			"originates, guiding marketing budget allocation across regions and channels.",
	}

	return domain.InsightReport{
		ReportID:    uuid.New().String(),
		GeneratedAt: now.Format(time.RFC3339),
		GeneratedBy: generatedBy,
		Goal:        goal,
		Summary:     summary,
		Sections:    sections,
	}
}
