package trendsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sustainatrend/trendboard/pkg/trends"
)

// HTTPConfig configures the HTTP trends client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient talks to a remote SustainaTrend API over REST.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds a client for a live trends API.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("trendsapi: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// FetchTrends retrieves general trend records, optionally filtered.
func (c *HTTPClient) FetchTrends(ctx context.Context, q trends.Query) ([]trends.Record, error) {
	return c.fetch(ctx, "/api/trends", q)
}

// FetchRealEstateTrends retrieves the property-portfolio trend records.
func (c *HTTPClient) FetchRealEstateTrends(ctx context.Context, q trends.Query) ([]trends.Record, error) {
	return c.fetch(ctx, "/api/realestate-trends", q)
}

func (c *HTTPClient) fetch(ctx context.Context, path string, q trends.Query) ([]trends.Record, error) {
	values := url.Values{}
	if q.Category != "" && q.Category != "all" {
		values.Set("category", q.Category)
	}
	if q.Timeframe != "" && q.Timeframe != "all" {
		values.Set("timeframe", q.Timeframe)
	}
	endpoint := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}
	var payload struct {
		Trends []trends.Record `json:"trends"`
	}
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Trends, nil
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, body, target any) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("trendsapi: encode payload: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("trendsapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("trendsapi: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("trendsapi: remote error %d: %s", resp.StatusCode, buf.String())
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("trendsapi: decode response: %w", err)
	}
	return nil
}
