package presenter

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/domain"
)

func reading(doc string) *domain.CarbonIntensityReading {
	r := domain.CarbonIntensityFrom(gjson.Parse(doc))
	return &r
}

func power(doc string) *domain.PowerBreakdown {
	p := domain.PowerBreakdownFrom(gjson.Parse(doc))
	return &p
}

func TestCarbonIntensityLines(t *testing.T) {
	lines := CarbonIntensityLines(*reading(`{"carbonIntensity": 42, "datetime": "2024-01-01T00:00Z", "emissionFactorType": "lifecycle"}`))

	require.Len(t, lines, 3)
	assert.Equal(t, "Carbon Intensity: 42 gCO₂/kWh", lines[0].String())
	assert.Equal(t, "Date and Time: 2024-01-01T00:00Z", lines[1].String())
	assert.Equal(t, "Emission Factor Type: lifecycle", lines[2].String())
}

func TestCarbonIntensityLinesMissingFields(t *testing.T) {
	lines := CarbonIntensityLines(*reading(`{}`))

	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.Equal(t, domain.NotAvailable, l.Value)
		assert.Empty(t, l.Unit)
	}
	assert.Equal(t, "Carbon Intensity: N/A", lines[0].String())
}

func TestBreakdownSection(t *testing.T) {
	p := power(`{"powerConsumptionBreakdown": {"solar": 10, "gas": 5, "oil": null}}`)

	s := BreakdownSection(ConsumptionTitle, ConsumptionMetric, p.Consumption)
	assert.Equal(t, [2]string{"Source", "Power Consumption (MW)"}, s.Table.Columns)
	assert.Equal(t, [][2]string{{"solar", "10"}, {"gas", "5"}, {"oil", "N/A"}}, s.Table.Rows)

	assert.Equal(t, "Power Consumption Breakdown", s.Chart.Title)
	assert.Equal(t, "Power Consumption (MW)", s.Chart.YLabel)
	assert.Equal(t, []string{"solar", "gas", "oil"}, s.Chart.Labels)
	require.Len(t, s.Chart.Values, 3)
	assert.Equal(t, 10.0, *s.Chart.Values[0])
	assert.Equal(t, 5.0, *s.Chart.Values[1])
	assert.Nil(t, s.Chart.Values[2])
	assert.Equal(t, 2, s.Chart.Bars())
}

func TestBreakdownSectionEmpty(t *testing.T) {
	s := BreakdownSection(ProductionTitle, ProductionMetric, domain.Breakdown{})

	assert.NotNil(t, s.Table.Rows)
	assert.Len(t, s.Table.Rows, 0)
	assert.Equal(t, 0, s.Chart.Bars())

	out, err := json.Marshal(s.Chart)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Power Production Breakdown","yLabel":"Power Production (MW)","labels":[],"values":[]}`, string(out))
}

func TestPresentScenarioTwo(t *testing.T) {
	v := Present(domain.Report{
		Zone:  "FR",
		Power: power(`{"powerConsumptionBreakdown": {"solar": 10, "gas": 5}, "powerProductionBreakdown": {}, "powerConsumptionTotal": 15, "powerProductionTotal": 0}`),
	})

	require.True(t, v.HasPower())
	assert.Len(t, v.Consumption.Table.Rows, 2)
	assert.Len(t, v.Production.Table.Rows, 0)
	require.Len(t, v.Totals, 2)
	assert.Equal(t, "Total Power Consumption: 15 MW", v.Totals[0].String())
	assert.Equal(t, "Total Power Production: 0 MW", v.Totals[1].String())
	assert.Nil(t, v.CarbonIntensity)
}

func TestPresentFailedSectionsOmitted(t *testing.T) {
	v := Present(domain.Report{Zone: "FR", Notices: []string{"Failed to fetch data."}})

	assert.Nil(t, v.CarbonIntensity)
	assert.False(t, v.HasPower())
	assert.Nil(t, v.Totals)
	assert.Equal(t, []string{"Failed to fetch data."}, v.Notices)
}

func TestRenderText(t *testing.T) {
	v := Present(domain.Report{
		Zone:            "FR",
		CarbonIntensity: reading(`{"carbonIntensity": 42, "datetime": "2024-01-01T00:00Z", "emissionFactorType": "lifecycle"}`),
		Power:           power(`{"powerConsumptionBreakdown": {"solar": 10, "battery discharge": -2, "gas": null}, "powerProductionBreakdown": {}, "powerConsumptionTotal": 15}`),
	})

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, v))
	out := buf.String()

	assert.Contains(t, out, "Carbon Intensity: 42 gCO₂/kWh")
	assert.Contains(t, out, "Emission Factor Type: lifecycle")
	assert.Contains(t, out, "Power Consumption Breakdown")
	assert.Contains(t, out, "Power Production Breakdown")
	assert.Contains(t, out, "battery discharge")
	assert.Contains(t, out, "Total Power Consumption: 15 MW")
	assert.Contains(t, out, "Total Power Production: N/A")
	assert.Less(t, strings.Index(out, "Latest Carbon Intensity"), strings.Index(out, "Latest Power Breakdown"))
}

func TestRenderTextPromptOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, View{Prompt: "Enter your API key and region code to fetch data."}))

	assert.Contains(t, buf.String(), "Enter your API key")
	assert.NotContains(t, buf.String(), "Breakdown")
}

func TestTextChartScaling(t *testing.T) {
	ten, five := 10.0, 5.0
	out := TextChart(Chart{Title: "T", YLabel: "Y", Labels: []string{"solar", "gas", "oil"}, Values: []*float64{&ten, &five, nil}})

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, barWidth, strings.Count(lines[2], "█"))
	assert.Equal(t, barWidth/2, strings.Count(lines[3], "█"))
	assert.Contains(t, lines[4], "N/A")
}

func TestRenderTextOverflowingNumber(t *testing.T) {
	v := Present(domain.Report{
		Zone:  "FR",
		Power: power(`{"powerConsumptionBreakdown": {"solar": 1e400, "gas": 5}, "powerProductionBreakdown": {}}`),
	})

	require.True(t, v.HasPower())
	assert.Equal(t, [][2]string{{"solar", "1e400"}, {"gas", "5"}}, v.Consumption.Table.Rows)
	assert.Nil(t, v.Consumption.Chart.Values[0])
	assert.Equal(t, 1, v.Consumption.Chart.Bars())

	var buf bytes.Buffer
	require.NotPanics(t, func() { require.NoError(t, RenderText(&buf, v)) })
	assert.Contains(t, buf.String(), "1e400")
}

func TestTextChartNonFiniteValues(t *testing.T) {
	inf, nan, five := math.Inf(1), math.NaN(), 5.0
	var out string
	require.NotPanics(t, func() {
		out = TextChart(Chart{Title: "T", YLabel: "Y", Labels: []string{"a", "b", "c"}, Values: []*float64{&inf, &nan, &five}})
	})

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, 0, strings.Count(lines[2], "█"))
	assert.Equal(t, 0, strings.Count(lines[3], "█"))
	assert.Equal(t, barWidth, strings.Count(lines[4], "█"))
}

func TestTextChartEmpty(t *testing.T) {
	out := TextChart(Chart{Title: "Power Production Breakdown", YLabel: "Power Production (MW)", Labels: []string{}, Values: []*float64{}})

	assert.NotContains(t, out, "█")
	assert.Contains(t, out, "Power Production Breakdown")
}

func TestTextTableEmpty(t *testing.T) {
	out := TextTable(Table{Columns: [2]string{"Source", "Power Production (MW)"}, Rows: [][2]string{}})

	assert.Contains(t, out, "Source")
	assert.Contains(t, out, "Power Production (MW)")
}
