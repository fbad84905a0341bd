package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valuecraft/server/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestCompsClient_FetchComps(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/comps", r.URL.Path)

		var req CompsRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Austin", req.Location.City)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(compsPayload))
	}))
	defer server.Close()

	cache, err := NewResponseCache(t.TempDir(), time.Hour, testLogger())
	require.NoError(t, err)
	client := CompsClient{NewClient("comps", server.URL+"/", 5*time.Second, cache, testLogger())}

	req := CompsRequest{
		Location: models.Location{Address: "10 Main St", City: "Austin", State: "TX"},
		Property: models.PropertySnapshot{PropertyType: models.PropertyTypeSingleFamily, SquareFootage: 2000},
	}
	result, err := client.FetchComps(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Comps, 2)
	assert.Equal(t, 415000.0, result.Summary.SuggestedValue)

	cached, err := client.FetchComps(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, result, cached)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := VerifiedSalesClient{NewClient("verified_sales", server.URL, time.Second, nil, testLogger())}
	_, err := client.FetchVerifiedSales(context.Background(), CompsRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := TrendClient{NewClient("market_trend", server.URL, 5*time.Second, nil, testLogger())}
	_, err := client.FetchTrend(ctx, TrendRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_VerifiedSalesMarkedVerified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/verified-sales", r.URL.Path)
		w.Write([]byte(`{"comparables": [{"address": "1 Elm", "salePrice": 300000, "sqft": 1500}]}`))
	}))
	defer server.Close()

	client := VerifiedSalesClient{NewClient("verified_sales", server.URL, time.Second, nil, testLogger())}
	comps, err := client.FetchVerifiedSales(context.Background(), CompsRequest{})
	require.NoError(t, err)
	require.Len(t, comps, 1)
	assert.True(t, comps[0].Verified)
	assert.Equal(t, 200.0, comps[0].PricePerSqft)
}

func TestNewHTTPSet(t *testing.T) {
	set := NewHTTPSet(Endpoints{Comps: "http://comps", Trend: "http://trend"}, time.Second, nil, testLogger())
	assert.NotNil(t, set.Comps)
	assert.NotNil(t, set.Trend)
	assert.Nil(t, set.VerifiedSales)
	assert.Nil(t, set.PublicRecords)
	assert.Nil(t, set.Enrichment)
	assert.Nil(t, set.Condition)
}
