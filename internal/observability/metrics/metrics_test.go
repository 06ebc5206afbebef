package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("store", "products"),
		attribute.String("user_id", "u-1"),
		attribute.String("message_type", "TEXT"),
	)
	require.Len(t, attrs, 2)
	assert.Equal(t, attribute.Key("store"), attrs[0].Key)
	assert.Equal(t, attribute.Key("message_type"), attrs[1].Key)
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordCheckout(context.Background(), "card", 10)
		m.RecordMessage(context.Background(), "TEXT")
		m.RecordThread(context.Background(), true)
	})
}

func TestNewOnNoopProvider(t *testing.T) {
	m, err := New(Config{}, noop.NewMeterProvider())
	require.NoError(t, err)
	m.RecordReview(context.Background(), 5)
	m.RecordOrderStatus(context.Background(), "confirmado", "enviado")
}

func TestStoreMetricsObservesChanges(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewStoreMetrics(registry, Config{ServiceName: "hostelhub", Environment: "test"})

	m.StoreChanged("products", 1, 1)
	m.StoreChanged("products", 2, 2)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.mutations.WithLabelValues("products")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.size.WithLabelValues("products")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.version.WithLabelValues("products")))
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	registry := prometheus.NewRegistry()
	m := NewHTTPMetrics(registry, Config{})

	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/v1/products/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/products/3", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("/v1/products/:id", http.MethodGet, "200")))
}
