package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_Observe(t *testing.T) {
	c := NewCollector("graphryder_test")

	c.ObserveQuery("platforms", nil, 3*time.Millisecond)
	c.ObserveQuery("platforms", errors.New("down"), time.Millisecond)
	c.ObserveDB("findNodesByLabelAnyOrg", 4, nil, time.Millisecond)
	c.CacheHit()
	c.CacheMiss()
	c.CacheMiss()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Queries.WithLabelValues("platforms", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Queries.WithLabelValues("platforms", "error")))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.DBRows.WithLabelValues("findNodesByLabelAnyOrg")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.CacheHits))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.CacheMisses))
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector

	assert.NotPanics(t, func() {
		c.ObserveHTTP("GET", "/graphql", 200, time.Millisecond)
		c.ObserveQuery("platforms", nil, time.Millisecond)
		c.ObserveDB("ping", 0, nil, time.Millisecond)
		c.ObserveBatch(3)
		c.CacheHit()
		c.CacheMiss()
	})
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("graphryder_test")
	c.ObserveHTTP("POST", "/graphql", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "graphryder_test_http_requests_total")
}
