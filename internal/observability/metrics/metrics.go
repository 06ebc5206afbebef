package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

const exportInterval = 10 * time.Second

// Metrics exposes marketplace instruments. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	checkouts      metric.Int64Counter
	checkoutAmount metric.Float64Histogram
	messages       metric.Int64Counter
	threads        metric.Int64Counter
	reviews        metric.Int64Counter
	moderations    metric.Int64Counter
	orderStatus    metric.Int64Counter
	cartAdds       metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("deployment.environment", cfg.Environment),
	)
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(exportInterval))),
	)
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.StopHook(provider.Shutdown))
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New creates the marketplace instruments on provider.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "hostelhub"
	}
	meter := provider.Meter(name)

	var (
		m   Metrics
		err error
	)
	if m.checkouts, err = meter.Int64Counter("hostelhub_checkouts_total"); err != nil {
		return nil, err
	}
	if m.checkoutAmount, err = meter.Float64Histogram("hostelhub_checkout_amount"); err != nil {
		return nil, err
	}
	if m.messages, err = meter.Int64Counter("hostelhub_chat_messages_total"); err != nil {
		return nil, err
	}
	if m.threads, err = meter.Int64Counter("hostelhub_chat_threads_total"); err != nil {
		return nil, err
	}
	if m.reviews, err = meter.Int64Counter("hostelhub_reviews_total"); err != nil {
		return nil, err
	}
	if m.moderations, err = meter.Int64Counter("hostelhub_review_moderations_total"); err != nil {
		return nil, err
	}
	if m.orderStatus, err = meter.Int64Counter("hostelhub_order_status_changes_total"); err != nil {
		return nil, err
	}
	if m.cartAdds, err = meter.Int64Counter("hostelhub_cart_adds_total"); err != nil {
		return nil, err
	}
	return &m, nil
}

// NewNoop returns instruments bound to a noop provider.
func NewNoop() *Metrics {
	m, _ := New(Config{}, noop.NewMeterProvider())
	return m
}

func (m *Metrics) RecordCheckout(ctx context.Context, paymentMethod string, total float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(FilterAttributes(attribute.String("payment_method", strings.TrimSpace(paymentMethod)))...)
	m.checkouts.Add(ctx, 1, attrs)
	m.checkoutAmount.Record(ctx, total, attrs)
}

func (m *Metrics) RecordMessage(ctx context.Context, messageType string) {
	if m == nil {
		return
	}
	m.messages.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("message_type", messageType))...))
}

// RecordThread counts get-or-create resolutions, split by whether a new
// thread was created.
func (m *Metrics) RecordThread(ctx context.Context, created bool) {
	if m == nil {
		return
	}
	m.threads.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.Bool("created", created))...))
}

func (m *Metrics) RecordReview(ctx context.Context, rating int) {
	if m == nil {
		return
	}
	m.reviews.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.Int("rating", rating))...))
}

func (m *Metrics) RecordModeration(ctx context.Context, decision string) {
	if m == nil {
		return
	}
	m.moderations.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("decision", decision))...))
}

func (m *Metrics) RecordOrderStatus(ctx context.Context, from, to string) {
	if m == nil {
		return
	}
	m.orderStatus.Add(ctx, 1, metric.WithAttributes(FilterAttributes(
		attribute.String("from_status", from),
		attribute.String("to_status", to),
	)...))
}

func (m *Metrics) RecordCartAdd(ctx context.Context, added bool) {
	if m == nil {
		return
	}
	m.cartAdds.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.Bool("added", added))...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"store":          {},
	"payment_method": {},
	"message_type":   {},
	"created":        {},
	"rating":         {},
	"decision":       {},
	"from_status":    {},
	"to_status":      {},
	"added":          {},
	"route":          {},
	"status_code":    {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
