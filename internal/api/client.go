package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// AuthHeader carries the Electricity Maps API key.
const AuthHeader = "auth-token"

// FetchError is returned for every unsuccessful fetch: a non-200 status, a
// transport failure, or a body that is not JSON.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// NewWithHTTPClient lets tests and the CLI supply their own transport.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, http: hc}
}

func (c *Client) CarbonIntensityURL(zone string) string {
	return c.endpoint("/carbon-intensity/latest", zone)
}

func (c *Client) PowerBreakdownURL(zone string) string {
	return c.endpoint("/power-breakdown/latest", zone)
}

// AuthHeaders builds the header set for an API key.
func AuthHeaders(apiKey string) map[string]string {
	return map[string]string{AuthHeader: apiKey}
}

// Fetch performs one GET and returns the parsed JSON body when the server
// answers 200. It never retries.
func (c *Client) Fetch(ctx context.Context, rawURL string, headers map[string]string) (gjson.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return gjson.Result{}, &FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return gjson.Result{}, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	log.Debug().
		Str("url", rawURL).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("upstream response")

	if resp.StatusCode != http.StatusOK {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return gjson.Result{}, &FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, &FetchError{URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, &FetchError{URL: rawURL, Err: fmt.Errorf("response is not valid JSON")}
	}
	return gjson.ParseBytes(body), nil
}

func (c *Client) endpoint(path, zone string) string {
	params := url.Values{}
	params.Set("zone", zone)
	return c.baseURL + path + "?" + params.Encode()
}
