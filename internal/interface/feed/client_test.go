package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"flightlo-service/internal/domain/entity"
	repo "flightlo-service/internal/interface/repository"
	"flightlo-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetJSON_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient("test")
	var out map[string]any
	err := client.GetJSON(context.Background(), server.URL, nil, &out)

	var feedErr *entity.FeedError
	require.True(t, errors.As(err, &feedErr))
	assert.Equal(t, entity.NetworkFailure, feedErr.Kind)
	assert.Equal(t, "test", feedErr.Feed)
	assert.NotContains(t, err.Error(), "upstream exploded")
}

func TestClient_GetJSON_ParseErrorNotCached(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"broken":`))
	}))
	defer server.Close()

	client := NewClient("test", WithCache(repo.NewMemoryFeedCache(), time.Minute))
	var out map[string]any

	for i := 0; i < 2; i++ {
		err := client.GetJSON(context.Background(), server.URL, nil, &out)
		var feedErr *entity.FeedError
		require.True(t, errors.As(err, &feedErr))
		assert.Equal(t, entity.ParseFailure, feedErr.Kind)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_Get_UsesCache(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, defaultUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "international", r.URL.Query().Get("search"))
		w.Write([]byte("payload"))
	}))
	defer server.Close()

	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	client := NewClient("cached", WithCache(repo.NewMemoryFeedCache(), time.Minute), WithMetrics(m))
	params := url.Values{"search": {"international"}}

	for i := 0; i < 3; i++ {
		body, err := client.Get(context.Background(), server.URL, params)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(body))
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.CacheLookups.WithLabelValues("cached", "hit")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheLookups.WithLabelValues("cached", "miss")))
}

func TestClient_RateLimitRespectsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient("limited", WithRateLimit(1))

	_, err := client.Get(context.Background(), server.URL, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.Get(ctx, server.URL, nil)

	var feedErr *entity.FeedError
	require.True(t, errors.As(err, &feedErr))
	assert.Equal(t, entity.NetworkFailure, feedErr.Kind)
}

func TestClient_TimeoutIsNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient("slow").Get(ctx, server.URL+"?access_key=secret", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.NotContains(t, err.Error(), "secret")
}

func TestClient_Headers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "custom/2.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "text/csv", r.Header.Get("Accept"))
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient("h", WithHeader("User-Agent", "custom/2.0"), WithHeader("Accept", "text/csv"))
	_, err := client.Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "http://x/a", buildURL("http://x/a", nil))
	assert.Equal(t, "http://x/a?q=1", buildURL("http://x/a", url.Values{"q": {"1"}}))
	assert.Equal(t, "http://x/a?z=0&q=1", buildURL("http://x/a?z=0", url.Values{"q": {"1"}}))
}
