package providers

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Set bundles the providers an analysis run may consult. Any member may be
// nil, meaning the source is unavailable.
type Set struct {
	Comps         CompsProvider
	VerifiedSales VerifiedSalesProvider
	PublicRecords PublicRecordsProvider
	Trend         MarketTrendProvider
	Enrichment    EnrichmentProvider
	Condition     ConditionAdvisor
}

// Endpoints are provider base URLs. An empty URL disables that provider.
type Endpoints struct {
	Comps         string
	VerifiedSales string
	PublicRecords string
	Trend         string
	Enrichment    string
	Condition     string
}

// NewHTTPSet builds HTTP clients for every configured endpoint.
func NewHTTPSet(endpoints Endpoints, timeout time.Duration, cache *ResponseCache, logger *logrus.Logger) Set {
	var set Set
	if endpoints.Comps != "" {
		set.Comps = CompsClient{NewClient("comps", endpoints.Comps, timeout, cache, logger)}
	}
	if endpoints.VerifiedSales != "" {
		set.VerifiedSales = VerifiedSalesClient{NewClient("verified_sales", endpoints.VerifiedSales, timeout, cache, logger)}
	}
	if endpoints.PublicRecords != "" {
		set.PublicRecords = PublicRecordsClient{NewClient("public_records", endpoints.PublicRecords, timeout, cache, logger)}
	}
	if endpoints.Trend != "" {
		set.Trend = TrendClient{NewClient("market_trend", endpoints.Trend, timeout, cache, logger)}
	}
	if endpoints.Enrichment != "" {
		set.Enrichment = EnrichmentClient{NewClient("enrichment", endpoints.Enrichment, timeout, cache, logger)}
	}
	if endpoints.Condition != "" {
		set.Condition = ConditionClient{NewClient("condition", endpoints.Condition, timeout, cache, logger)}
	}
	return set
}
