// Package gridsim serves simulated Electricity Maps responses for local
// development and demos.
package gridsim

import (
	"bytes"
	"encoding/json"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/api"
)

// UnknownZone always answers 404, to exercise the dashboard's error path.
const UnknownZone = "XX"

// sources lists generation categories in the order the real API uses.
var sources = []string{
	"nuclear", "geothermal", "biomass", "coal", "wind", "solar",
	"hydro", "gas", "oil", "unknown", "hydro discharge", "battery discharge",
}

// nullSource is reported as null in the production breakdown.
const nullSource = "geothermal"

type sourceValue struct {
	name  string
	value *float64
}

// orderedSources marshals as a JSON object keeping slice order.
type orderedSources []sourceValue

func (o orderedSources) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(s.name)
		buf.Write(k)
		buf.WriteByte(':')
		if s.value == nil {
			buf.WriteString("null")
			continue
		}
		v, err := json.Marshal(*s.value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type carbonIntensity struct {
	Zone               string `json:"zone"`
	CarbonIntensity    int    `json:"carbonIntensity"`
	Datetime           string `json:"datetime"`
	UpdatedAt          string `json:"updatedAt"`
	EmissionFactorType string `json:"emissionFactorType"`
	IsEstimated        bool   `json:"isEstimated"`
}

type powerBreakdown struct {
	Zone                      string         `json:"zone"`
	Datetime                  string         `json:"datetime"`
	PowerConsumptionBreakdown orderedSources `json:"powerConsumptionBreakdown"`
	PowerProductionBreakdown  orderedSources `json:"powerProductionBreakdown"`
	PowerConsumptionTotal     float64        `json:"powerConsumptionTotal"`
	PowerProductionTotal      float64        `json:"powerProductionTotal"`
	IsEstimated               bool           `json:"isEstimated"`
}

type simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewApp returns the stand-in API. Routes live under /v3 like the real one.
func NewApp(rng *rand.Rand, now func() time.Time) *fiber.App {
	s := &simulator{rng: rng, now: now}
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	v3 := app.Group("/v3", s.authorize)
	v3.Get("/carbon-intensity/latest", s.carbonIntensity)
	v3.Get("/power-breakdown/latest", s.powerBreakdown)
	return app
}

func (s *simulator) authorize(c *fiber.Ctx) error {
	if strings.TrimSpace(c.Get(api.AuthHeader)) == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "missing auth-token"})
	}
	zone := c.Query("zone")
	if zone == "" || strings.EqualFold(zone, UnknownZone) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "zone not found"})
	}
	return c.Next()
}

func (s *simulator) hour() string {
	return s.now().UTC().Truncate(time.Hour).Format("2006-01-02T15:04:05.000Z")
}

func (s *simulator) carbonIntensity(c *fiber.Ctx) error {
	s.mu.Lock()
	intensity := 20 + s.rng.IntN(600)
	s.mu.Unlock()

	return c.JSON(carbonIntensity{
		Zone:               c.Query("zone"),
		CarbonIntensity:    intensity,
		Datetime:           s.hour(),
		UpdatedAt:          s.now().UTC().Format(time.RFC3339),
		EmissionFactorType: "lifecycle",
		IsEstimated:        true,
	})
}

func (s *simulator) powerBreakdown(c *fiber.Ctx) error {
	s.mu.Lock()
	consumption, consumptionTotal := s.breakdown(false)
	production, productionTotal := s.breakdown(true)
	s.mu.Unlock()

	return c.JSON(powerBreakdown{
		Zone:                      c.Query("zone"),
		Datetime:                  s.hour(),
		PowerConsumptionBreakdown: consumption,
		PowerProductionBreakdown:  production,
		PowerConsumptionTotal:     consumptionTotal,
		PowerProductionTotal:      productionTotal,
		IsEstimated:               true,
	})
}

// breakdown draws one value per source in megawatts. Production leaves
// nullSource unreported.
func (s *simulator) breakdown(production bool) (orderedSources, float64) {
	out := make(orderedSources, 0, len(sources))
	var total float64
	for _, name := range sources {
		if production && name == nullSource {
			out = append(out, sourceValue{name: name})
			continue
		}
		v := math.Round(s.rng.Float64() * 5000)
		out = append(out, sourceValue{name: name, value: &v})
		total += v
	}
	return out, total
}
