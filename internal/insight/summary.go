// Package insight condenses spending history into a summary and turns it
// into advisory text through a pluggable generator.
package insight

import (
	"fmt"
	"strings"
	"time"

	"fintrack/internal/core"
)

// Summary is the aggregate view handed to the generator.
type Summary struct {
	TotalSpent    core.Money
	Breakdown     []core.CategoryTotal
	TopCategories []core.CategoryTotal
	Trend         []core.MonthBucket
}

// Empty reports whether there is nothing to analyze.
func (s Summary) Empty() bool {
	return len(s.Breakdown) == 0
}

// BuildSummary aggregates the transactions into the summary used for
// insight generation. The trend window ends at now's UTC month.
func BuildSummary(txs []core.Transaction, now time.Time) Summary {
	breakdown, total := core.Breakdown(txs)
	return Summary{
		TotalSpent:    total.Round2(),
		Breakdown:     breakdown,
		TopCategories: core.TopCategories(breakdown, core.TopCategoryCount),
		Trend:         core.MonthlyTrend(txs, core.MonthKeyOf(now), core.TrendWindowMonths),
	}
}

// BuildPrompt renders the summary as the advisory prompt.
func BuildPrompt(s Summary) string {
	var b strings.Builder

	b.WriteString("Analyze the following financial data and provide actionable insights and recommendations:\n\n")
	fmt.Fprintf(&b, "Total Spent: $%s\n\n", s.TotalSpent.StringFixed(2))

	b.WriteString("Category Breakdown:\n")
	for _, c := range s.Breakdown {
		fmt.Fprintf(&b, "- %s: $%s (%.1f%%)\n", c.Category, c.Total.StringFixed(2), c.Percentage)
	}

	b.WriteString("\nMonthly Trend:\n")
	for _, m := range s.Trend {
		fmt.Fprintf(&b, "- %s: $%s\n", m.Month, m.Total.StringFixed(2))
	}

	b.WriteString("\nTop Spending Categories:\n")
	for i, c := range s.TopCategories {
		fmt.Fprintf(&b, "%d. %s: $%s\n", i+1, c.Category, c.Total.StringFixed(2))
	}

	b.WriteString(`
Please provide:
1. Key spending patterns and trends
2. Areas where spending could be optimized
3. Specific actionable recommendations
4. Budget allocation suggestions
5. Financial health assessment

Keep the response concise, practical, and easy to understand. Focus on actionable advice.
`)

	return b.String()
}
