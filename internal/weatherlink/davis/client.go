package davis

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/i474232898/weatherlink-live/internal/weatherlink"
)

// DefaultTimeout bounds one whole request/response cycle.
const DefaultTimeout = 10 * time.Second

const currentConditionsPath = "/v1/current_conditions"

// maxBodySize guards against a misbehaving device streaming garbage.
const maxBodySize = 1 << 20

// Endpoint builds the current_conditions URL for a host. A value that already
// carries a scheme is used unchanged.
func Endpoint(host string) string {
	host = strings.TrimSpace(host)
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host
	}
	return "http://" + strings.TrimSuffix(host, "/") + currentConditionsPath
}

// Client reads the local API of a WeatherLink Live. It never retries.
type Client struct {
	http    *http.Client
	timeout time.Duration
}

// NewClient returns a Client using httpClient (http.DefaultClient when nil)
// and the given timeout (DefaultTimeout when zero or negative).
func NewClient(httpClient *http.Client, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{http: httpClient, timeout: timeout}
}

// envelope mirrors the top level of the current_conditions response.
// Pointers distinguish a missing or null member from an empty one.
type envelope struct {
	Data *struct {
		DID        *string                    `json:"did"`
		Conditions *[]weatherlink.RawCondition `json:"conditions"`
	} `json:"data"`
	Error json.RawMessage `json:"error"`
}

// Fetch performs one GET against endpoint and returns the decoded report.
// Failures are *FetchError values; a report is either complete or absent.
func (c *Client) Fetch(ctx context.Context, endpoint string) (weatherlink.RawReport, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return weatherlink.RawReport{}, unreachable(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return weatherlink.RawReport{}, unreachable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return weatherlink.RawReport{}, &FetchError{Kind: ErrHTTPStatus, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return weatherlink.RawReport{}, unreachable(err)
	}

	return Decode(body)
}

// Decode parses a current_conditions body.
func Decode(body []byte) (weatherlink.RawReport, error) {
	var payload envelope
	if err := json.Unmarshal(body, &payload); err != nil {
		return weatherlink.RawReport{}, malformed("decode payload: %w", err)
	}

	if payload.Data == nil {
		if len(payload.Error) > 0 && string(payload.Error) != "null" {
			return weatherlink.RawReport{}, malformed("device reported error: %s", payload.Error)
		}
		return weatherlink.RawReport{}, malformed("missing data object")
	}
	if payload.Data.Conditions == nil {
		return weatherlink.RawReport{}, malformed("missing data.conditions")
	}

	conditions := *payload.Data.Conditions
	for i, cond := range conditions {
		if cond == nil {
			return weatherlink.RawReport{}, malformed("condition %d is null", i)
		}
	}

	report := weatherlink.RawReport{Conditions: conditions}
	if payload.Data.DID != nil {
		report.DeviceID = *payload.Data.DID
	}
	return report, nil
}
