package metrics

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/eshaffer321/booking-go/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	hooks := c.Hooks()
	ctx := context.Background()

	req, _ := http.NewRequest(http.MethodPost, "http://example.test/reservation/", nil)
	hooks.OnRequest(ctx, req)
	hooks.OnRequest(ctx, req)
	hooks.OnResponse(ctx, &http.Response{StatusCode: 201, Request: req}, 120*time.Millisecond)
	hooks.OnResponse(ctx, &http.Response{StatusCode: 422, Request: req}, 80*time.Millisecond)
	hooks.OnError(ctx, &types.Error{Code: types.CodeDetail, Status: 422})
	hooks.OnError(ctx, errors.New("plain"))

	assert.Equal(t, float64(2), testutil.ToFloat64(c.requests.WithLabelValues(http.MethodPost)))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.responses.WithLabelValues(http.MethodPost, "201")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.responses.WithLabelValues(http.MethodPost, "422")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.failures.WithLabelValues(types.CodeDetail)))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.failures.WithLabelValues(types.CodeUnknown)))
	assert.Equal(t, 1, testutil.CollectAndCount(c.duration))
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
