// Package report renders pipeline outputs as terminal text.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"StockTrends/internal/pipeline"
	"StockTrends/internal/presenter"
	"StockTrends/internal/recorder"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	winnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#374151"))
)

func grid(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		Render()
}

// FormatRawTable renders the raw data preview.
func FormatRawTable(v *presenter.RawView) string {
	rows := make([][]string, len(v.Rows))
	for i, r := range v.Rows {
		rows[i] = r.Cells()
	}
	return grid(presenter.RawColumns, rows)
}

// FormatForecastTable renders the forecast preview.
func FormatForecastTable(v *presenter.ForecastView) string {
	rows := make([][]string, len(v.Rows))
	for i, r := range v.Rows {
		rows[i] = r.Cells()
	}
	return grid(presenter.ForecastColumns, rows)
}

// FormatSection renders everything shown for one stock.
func FormatSection(s *pipeline.StockSection) string {
	var b strings.Builder
	b.WriteString(statusStyle.Render(s.Status) + "\n")
	if s.Raw != nil {
		b.WriteString(headingStyle.Render(s.Raw.Heading) + "\n")
		if s.Raw.Warning != "" {
			b.WriteString(errorStyle.Render(s.Raw.Warning) + "\n")
		} else {
			b.WriteString(FormatRawTable(s.Raw) + "\n")
			if line := s.Raw.SummaryLine(); line != "" {
				b.WriteString(statusStyle.Render(line) + "\n")
			}
		}
	}
	if s.Forecast != nil {
		b.WriteString(headingStyle.Render(s.Forecast.Heading) + "\n")
		b.WriteString(FormatForecastTable(s.Forecast) + "\n")
	}
	if s.Error != "" {
		b.WriteString(errorStyle.Render("Error: "+s.Error) + "\n")
	}
	return b.String()
}

// FormatComparison renders the recommendation block.
func FormatComparison(c *pipeline.ComparisonSection) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(c.Heading) + "\n")
	if c.Error != "" {
		b.WriteString(errorStyle.Render(c.Error) + "\n")
		return b.String()
	}
	for _, line := range c.PeakLines {
		b.WriteString(line + "\n")
	}
	b.WriteString(winnerStyle.Render(c.Recommendation.Message) + "\n")
	return b.String()
}

// FormatOutputs renders a whole run.
func FormatOutputs(out *pipeline.Outputs) string {
	var b strings.Builder
	sel := out.Selection
	title := fmt.Sprintf("Stock Trend Forecast | %s | %d year(s)", sel.Primary, sel.HorizonYears)
	if sel.Compare {
		title = fmt.Sprintf("Stock Trend Forecast | %s vs %s | %d year(s)", sel.Primary, sel.Secondary, sel.HorizonYears)
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")

	if out.Error != "" {
		b.WriteString(errorStyle.Render("Error: "+out.Error) + "\n")
		return b.String()
	}
	for _, s := range []*pipeline.StockSection{out.Primary, out.Secondary} {
		if s == nil {
			continue
		}
		b.WriteString(FormatSection(s) + "\n")
	}
	if out.Comparison != nil {
		b.WriteString(FormatComparison(out.Comparison))
	}
	return b.String()
}

// FormatRecommendations renders recorded recommendation history.
func FormatRecommendations(events []recorder.RecommendationEvent) string {
	if len(events) == 0 {
		return statusStyle.Render("No recommendations recorded yet.") + "\n"
	}
	rows := make([][]string, len(events))
	for i, e := range events {
		rows[i] = []string{
			e.RecordedAt.Format("2006-01-02 15:04"),
			e.Label1, e.Label2,
			fmt.Sprintf("%.2f", e.Peak1), fmt.Sprintf("%.2f", e.Peak2),
			e.Winner, fmt.Sprintf("%d", e.HorizonYears),
		}
	}
	return grid([]string{"Time", "Stock 1", "Stock 2", "Peak 1", "Peak 2", "Winner", "Years"}, rows)
}
