package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/api"
	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/domain"
)

const (
	// PromptMissingInput is shown instead of fetching when a credential is empty.
	PromptMissingInput = "Enter your API key and region code to fetch data."
	// NoticeFetchFailed is the single notice for any failed fetch.
	NoticeFetchFailed = "Failed to fetch data."
)

// Endpoint names used in lookup events.
const (
	EndpointCarbonIntensity = "carbon-intensity"
	EndpointPowerBreakdown  = "power-breakdown"
)

// Credentials are entered per lookup and never stored.
type Credentials struct {
	APIKey string
	Zone   string
}

// String hides the API key so credentials can't leak through %v.
func (c Credentials) String() string {
	return "zone=" + c.Zone + " api_key=[redacted]"
}

// Fetcher is the subset of api.Client the service needs.
type Fetcher interface {
	Fetch(ctx context.Context, url string, headers map[string]string) (gjson.Result, error)
	CarbonIntensityURL(zone string) string
	PowerBreakdownURL(zone string) string
}

// LookupEvent describes one fetch attempt.
type LookupEvent struct {
	Zone       string
	Endpoint   string
	OK         bool
	StatusCode int
	Duration   time.Duration
	At         time.Time
	// Reading is set for successful carbon-intensity fetches.
	Reading *domain.CarbonIntensityReading
}

// Observer receives lookup events. Errors are logged and otherwise ignored.
type Observer interface {
	ObserveLookup(ctx context.Context, ev LookupEvent) error
}

type Services struct {
	fetcher   Fetcher
	observers []Observer
	now       func() time.Time
}

func New(fetcher Fetcher, observers ...Observer) *Services {
	return &Services{fetcher: fetcher, observers: observers, now: time.Now}
}

// Lookup runs one dashboard refresh: both endpoints are fetched in turn and a
// failure on one does not stop the other.
func (s *Services) Lookup(ctx context.Context, creds Credentials) domain.Report {
	zone := strings.TrimSpace(creds.Zone)
	if zone == "" || strings.TrimSpace(creds.APIKey) == "" {
		return domain.Report{Zone: zone, Prompt: PromptMissingInput}
	}

	report := domain.Report{Zone: zone}
	headers := api.AuthHeaders(creds.APIKey)

	doc, ev := s.fetch(ctx, zone, EndpointCarbonIntensity, s.fetcher.CarbonIntensityURL(zone), headers, &report)
	if ev.OK {
		r := domain.CarbonIntensityFrom(doc)
		report.CarbonIntensity = &r
		ev.Reading = &r
	}
	s.notify(ctx, ev)

	doc, ev = s.fetch(ctx, zone, EndpointPowerBreakdown, s.fetcher.PowerBreakdownURL(zone), headers, &report)
	if ev.OK {
		p := domain.PowerBreakdownFrom(doc)
		report.Power = &p
	}
	s.notify(ctx, ev)

	return report
}

// fetch issues one request and turns a failure into exactly one notice.
func (s *Services) fetch(ctx context.Context, zone, endpoint, url string, headers map[string]string, report *domain.Report) (gjson.Result, LookupEvent) {
	start := s.now()
	doc, err := s.fetcher.Fetch(ctx, url, headers)
	ev := LookupEvent{
		Zone:       zone,
		Endpoint:   endpoint,
		OK:         err == nil,
		StatusCode: http.StatusOK,
		Duration:   s.now().Sub(start),
		At:         start,
	}
	if err != nil {
		ev.StatusCode = 0
		var fe *api.FetchError
		if errors.As(err, &fe) {
			ev.StatusCode = fe.StatusCode
		}
		log.Warn().Err(err).Str("zone", zone).Str("endpoint", endpoint).Msg("fetch failed")
		report.Notices = append(report.Notices, NoticeFetchFailed)
	}
	return doc, ev
}

func (s *Services) notify(ctx context.Context, ev LookupEvent) {
	for _, o := range s.observers {
		if err := o.ObserveLookup(ctx, ev); err != nil {
			log.Error().Err(err).Str("zone", ev.Zone).Str("endpoint", ev.Endpoint).Msg("lookup observer failed")
		}
	}
}
