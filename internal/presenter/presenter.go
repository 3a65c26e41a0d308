// Package presenter turns lookup reports into display-ready lines, tables and
// bar charts. HTML and terminal output both render from the same View.
package presenter

import (
	"fmt"

	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/domain"
)

const (
	ConsumptionTitle  = "Power Consumption Breakdown"
	ProductionTitle   = "Power Production Breakdown"
	ConsumptionMetric = "Power Consumption (MW)"
	ProductionMetric  = "Power Production (MW)"
	SourceColumn      = "Source"

	CarbonIntensityHeading = "Latest Carbon Intensity"
	PowerBreakdownHeading  = "Latest Power Breakdown"
)

// Line is a labelled scalar. Unit is omitted when the value is not available.
type Line struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

func (l Line) String() string {
	if l.Unit == "" {
		return fmt.Sprintf("%s: %s", l.Label, l.Value)
	}
	return fmt.Sprintf("%s: %s %s", l.Label, l.Value, l.Unit)
}

func line(label string, v domain.Value, unit string) Line {
	if !v.Present() {
		unit = ""
	}
	return Line{Label: label, Value: v.String(), Unit: unit}
}

// Table is a two-column table; Rows may be empty.
type Table struct {
	Columns [2]string   `json:"columns"`
	Rows    [][2]string `json:"rows"`
}

// Chart describes a bar chart with category labels on the x axis. A nil
// value has no bar.
type Chart struct {
	Title  string     `json:"title"`
	YLabel string     `json:"yLabel"`
	Labels []string   `json:"labels"`
	Values []*float64 `json:"values"`
}

// Bars counts the categories that have a bar.
func (c Chart) Bars() int {
	n := 0
	for _, v := range c.Values {
		if v != nil {
			n++
		}
	}
	return n
}

type Section struct {
	Title string `json:"title"`
	Table Table  `json:"table"`
	Chart Chart  `json:"chart"`
}

// CarbonIntensityLines renders the three scalar fields of a reading.
func CarbonIntensityLines(r domain.CarbonIntensityReading) []Line {
	return []Line{
		line("Carbon Intensity", r.Intensity, "gCO₂/kWh"),
		line("Date and Time", r.Datetime, ""),
		line("Emission Factor Type", r.EmissionFactorType, ""),
	}
}

// TotalLines renders the consumption and production totals.
func TotalLines(p domain.PowerBreakdown) []Line {
	return []Line{
		line("Total Power Consumption", p.ConsumptionTotal, "MW"),
		line("Total Power Production", p.ProductionTotal, "MW"),
	}
}

// BreakdownSection flattens a breakdown into a table and a chart, keeping the
// source order of the API document.
func BreakdownSection(title, metric string, b domain.Breakdown) Section {
	s := Section{
		Title: title,
		Table: Table{
			Columns: [2]string{SourceColumn, metric},
			Rows:    make([][2]string, 0, b.Len()),
		},
		Chart: Chart{
			Title:  title,
			YLabel: metric,
			Labels: make([]string, 0, b.Len()),
			Values: make([]*float64, 0, b.Len()),
		},
	}
	for _, e := range b {
		s.Table.Rows = append(s.Table.Rows, [2]string{e.Source, e.Value.String()})
		s.Chart.Labels = append(s.Chart.Labels, e.Source)
		if f, ok := e.Value.Float64(); ok {
			s.Chart.Values = append(s.Chart.Values, &f)
		} else {
			s.Chart.Values = append(s.Chart.Values, nil)
		}
	}
	return s
}

// View is everything a page or terminal needs to show for one lookup.
type View struct {
	Zone            string   `json:"zone,omitempty"`
	Prompt          string   `json:"prompt,omitempty"`
	Notices         []string `json:"notices,omitempty"`
	CarbonIntensity []Line   `json:"carbonIntensity,omitempty"`
	Consumption     *Section `json:"consumption,omitempty"`
	Production      *Section `json:"production,omitempty"`
	Totals          []Line   `json:"totals,omitempty"`
}

// HasPower reports whether the power breakdown sections are present.
func (v View) HasPower() bool { return v.Consumption != nil }

// Present builds the View for a report. Sections whose fetch failed are left
// out; everything else renders even when empty.
func Present(r domain.Report) View {
	v := View{
		Zone:    r.Zone,
		Prompt:  r.Prompt,
		Notices: r.Notices,
	}
	if r.CarbonIntensity != nil {
		v.CarbonIntensity = CarbonIntensityLines(*r.CarbonIntensity)
	}
	if r.Power != nil {
		consumption := BreakdownSection(ConsumptionTitle, ConsumptionMetric, r.Power.Consumption)
		production := BreakdownSection(ProductionTitle, ProductionMetric, r.Power.Production)
		v.Consumption = &consumption
		v.Production = &production
		v.Totals = TotalLines(*r.Power)
	}
	return v
}
