package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"valuecraft/server/internal/models"
)

const maxResponseBytes = 4 << 20

// Client posts JSON requests to one provider endpoint.
type Client struct {
	name    string
	baseURL string
	http    *http.Client
	cache   *ResponseCache
	logger  *logrus.Logger
}

// NewClient creates a client for the provider at baseURL. cache may be nil.
func NewClient(name, baseURL string, timeout time.Duration, cache *ResponseCache, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		cache:   cache,
		logger:  logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return c.name
}

// Call posts req to <baseURL>/<path> and decodes the response into out.
func (c *Client) Call(ctx context.Context, path string, req, out interface{}) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", c.name, err)
	}

	fields := logrus.Fields{"provider": c.name, "path": path}
	key := CacheKey(c.name, path, body)
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			c.logger.WithFields(fields).WithField("source", "cache").Debug("Provider response served from cache")
			return Decode(cached, out)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+strings.TrimLeft(path, "/"), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", c.name, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.WithFields(fields).WithError(err).Warn("Provider request failed")
		return fmt.Errorf("%s request failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", c.name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WithFields(fields).WithField("status", resp.StatusCode).Warn("Provider returned error status")
		return fmt.Errorf("%s returned status %d", c.name, resp.StatusCode)
	}

	if err := Decode(data, out); err != nil {
		c.logger.WithFields(fields).WithError(err).Error("Failed to parse provider response")
		return fmt.Errorf("failed to parse %s response: %w", c.name, err)
	}

	c.logger.WithFields(fields).WithField("duration_ms", time.Since(start).Milliseconds()).Info("Provider request completed")
	if c.cache != nil {
		if normalized, err := json.Marshal(out); err == nil {
			c.cache.Put(key, normalized)
		}
	}
	return nil
}

// CompsClient is the HTTP comparable-sales provider.
type CompsClient struct{ *Client }

func (c CompsClient) FetchComps(ctx context.Context, req CompsRequest) (CompsResult, error) {
	var resp CompsResponse
	if err := c.Call(ctx, "comps", req, &resp); err != nil {
		return CompsResult{}, err
	}
	return resp.Normalize(false), nil
}

// VerifiedSalesClient is the HTTP verified-sales provider.
type VerifiedSalesClient struct{ *Client }

func (c VerifiedSalesClient) FetchVerifiedSales(ctx context.Context, req CompsRequest) ([]models.ComparableSale, error) {
	var resp CompsResponse
	if err := c.Call(ctx, "verified-sales", req, &resp); err != nil {
		return nil, err
	}
	return resp.Normalize(true).Comps, nil
}

// PublicRecordsClient is the HTTP public-records provider.
type PublicRecordsClient struct{ *Client }

func (c PublicRecordsClient) FetchPublicRecord(ctx context.Context, loc models.Location) (*models.PublicRecord, error) {
	var resp PublicRecordResponse
	if err := c.Call(ctx, "public-records", loc, &resp); err != nil {
		return nil, err
	}
	return resp.Normalize(), nil
}

// TrendClient is the HTTP market-trend provider.
type TrendClient struct{ *Client }

func (c TrendClient) FetchTrend(ctx context.Context, req TrendRequest) (*models.MarketTrendSignal, error) {
	var resp TrendResponse
	if err := c.Call(ctx, "market-trend", req, &resp); err != nil {
		return nil, err
	}
	return resp.Normalize(), nil
}

// EnrichmentClient is the HTTP enrichment provider.
type EnrichmentClient struct{ *Client }

func (c EnrichmentClient) FetchEnrichment(ctx context.Context, req EnrichmentRequest) (*models.EnrichmentFigures, error) {
	var resp EnrichmentResponse
	if err := c.Call(ctx, "enrichment", req, &resp); err != nil {
		return nil, err
	}
	return resp.Normalize(), nil
}

// ConditionClient is the HTTP improvement advisor.
type ConditionClient struct{ *Client }

func (c ConditionClient) Assess(ctx context.Context, req ConditionRequest) (*models.ConditionAssessment, error) {
	var resp ConditionResponse
	if err := c.Call(ctx, "condition", req, &resp); err != nil {
		return nil, err
	}
	return resp.Normalize(), nil
}
