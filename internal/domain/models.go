// Package domain holds the records read from the Electricity Maps API.
//
// Payloads are schema-less: any field may be missing or null, and the set of
// breakdown sources depends on the zone. Fields are therefore kept as optional
// Values and breakdowns as ordered entry lists rather than fixed structs.
package domain

import (
	"encoding/json"
	"math"

	"github.com/tidwall/gjson"
)

// NotAvailable is displayed in place of any absent field.
const NotAvailable = "N/A"

// Field names consumed from the API documents.
const (
	FieldCarbonIntensity    = "carbonIntensity"
	FieldDatetime           = "datetime"
	FieldEmissionFactorType = "emissionFactorType"

	FieldConsumptionBreakdown = "powerConsumptionBreakdown"
	FieldProductionBreakdown  = "powerProductionBreakdown"
	FieldConsumptionTotal     = "powerConsumptionTotal"
	FieldProductionTotal      = "powerProductionTotal"
)

// Value is an optional JSON scalar. Numbers keep their verbatim JSON text.
type Value struct {
	text    string
	number  float64
	present bool
	numeric bool
}

// ValueOf converts a gjson result. Missing keys, null, objects and arrays
// are all treated as absent. Numbers outside the float64 range keep their
// text but are not numeric.
func ValueOf(r gjson.Result) Value {
	switch r.Type {
	case gjson.Number:
		f := r.Float()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return Value{text: r.Raw, present: true}
		}
		return Value{text: r.Raw, number: f, present: true, numeric: true}
	case gjson.String:
		return Value{text: r.String(), present: true}
	case gjson.True, gjson.False:
		return Value{text: r.Raw, present: true}
	default:
		return Value{}
	}
}

// Present reports whether the API supplied the field.
func (v Value) Present() bool { return v.present }

// Float64 returns the numeric value and whether there is one.
func (v Value) Float64() (float64, bool) {
	return v.number, v.present && v.numeric
}

// String returns the value as the API sent it, or NotAvailable.
func (v Value) String() string {
	if !v.present {
		return NotAvailable
	}
	return v.text
}

// MarshalJSON emits the verbatim number, a JSON string, or null when absent.
func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case !v.present:
		return []byte("null"), nil
	case v.numeric:
		return []byte(v.text), nil
	default:
		return json.Marshal(v.text)
	}
}

// Entry is one source category of a breakdown.
type Entry struct {
	Source string
	Value  Value
}

// Breakdown maps source labels to power values, in the order the API listed them.
type Breakdown []Entry

// BreakdownOf flattens a JSON object into entries. A missing or non-object
// field yields an empty breakdown.
func BreakdownOf(r gjson.Result) Breakdown {
	out := Breakdown{}
	if !r.IsObject() {
		return out
	}
	r.ForEach(func(key, value gjson.Result) bool {
		out = append(out, Entry{Source: key.String(), Value: ValueOf(value)})
		return true
	})
	return out
}

// Len returns the number of source categories.
func (b Breakdown) Len() int { return len(b) }

type CarbonIntensityReading struct {
	Intensity          Value
	Datetime           Value
	EmissionFactorType Value
}

// CarbonIntensityFrom reads the carbon-intensity/latest document.
func CarbonIntensityFrom(doc gjson.Result) CarbonIntensityReading {
	return CarbonIntensityReading{
		Intensity:          ValueOf(doc.Get(FieldCarbonIntensity)),
		Datetime:           ValueOf(doc.Get(FieldDatetime)),
		EmissionFactorType: ValueOf(doc.Get(FieldEmissionFactorType)),
	}
}

type PowerBreakdown struct {
	Consumption      Breakdown
	Production       Breakdown
	ConsumptionTotal Value
	ProductionTotal  Value
}

// PowerBreakdownFrom reads the power-breakdown/latest document.
func PowerBreakdownFrom(doc gjson.Result) PowerBreakdown {
	return PowerBreakdown{
		Consumption:      BreakdownOf(doc.Get(FieldConsumptionBreakdown)),
		Production:       BreakdownOf(doc.Get(FieldProductionBreakdown)),
		ConsumptionTotal: ValueOf(doc.Get(FieldConsumptionTotal)),
		ProductionTotal:  ValueOf(doc.Get(FieldProductionTotal)),
	}
}
