package presenter

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// barWidth is the column budget for the longest bar.
const barWidth = 40

var (
	headingStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	titleStyle    = lipgloss.NewStyle().Bold(true)
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	axisStyle     = lipgloss.NewStyle().Faint(true)
)

// RenderText writes the view for a terminal.
func RenderText(w io.Writer, v View) error {
	var b strings.Builder

	if v.Prompt != "" {
		b.WriteString(promptStyle.Render(v.Prompt) + "\n")
	}
	for _, n := range v.Notices {
		b.WriteString(noticeStyle.Render("error: "+n) + "\n")
	}

	if v.CarbonIntensity != nil {
		b.WriteString("\n" + headingStyle.Render(CarbonIntensityHeading) + "\n")
		for _, l := range v.CarbonIntensity {
			b.WriteString(l.String() + "\n")
		}
	}

	if v.HasPower() {
		b.WriteString("\n" + headingStyle.Render(PowerBreakdownHeading) + "\n")
		for _, s := range []*Section{v.Consumption, v.Production} {
			b.WriteString("\n" + TextTable(s.Table) + "\n\n")
			b.WriteString(TextChart(s.Chart) + "\n")
		}
		b.WriteString("\n")
		for _, l := range v.Totals {
			b.WriteString(l.String() + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// TextTable renders a two-column table with a header row.
func TextTable(t Table) string {
	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, []string{r[0], r[1]})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.Columns[0], t.Columns[1]).
		Rows(rows...).
		Render()
}

// TextChart renders a horizontal bar chart, one row per category. Bars are
// scaled to the largest absolute value; categories without a value show N/A.
func TextChart(c Chart) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(c.Title) + "\n")
	b.WriteString(axisStyle.Render(c.YLabel) + "\n")

	labelWidth := 0
	for _, l := range c.Labels {
		labelWidth = max(labelWidth, lipgloss.Width(l))
	}

	var peak float64
	for _, v := range c.Values {
		if v != nil && !math.IsInf(*v, 0) && !math.IsNaN(*v) {
			peak = math.Max(peak, math.Abs(*v))
		}
	}

	for i, label := range c.Labels {
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(label))
		v := c.Values[i]
		if v == nil {
			fmt.Fprintf(&b, "%s%s │ %s\n", label, pad, axisStyle.Render("N/A"))
			continue
		}
		n := 0
		if peak > 0 {
			n = int(math.Round(math.Abs(*v) / peak * barWidth))
		}
		if n < 0 || n > barWidth {
			n = 0
		}
		style := positiveStyle
		if *v < 0 {
			style = negativeStyle
		}
		fmt.Fprintf(&b, "%s%s │ %s %g\n", label, pad, style.Render(strings.Repeat("█", n)), *v)
	}
	return strings.TrimRight(b.String(), "\n")
}
