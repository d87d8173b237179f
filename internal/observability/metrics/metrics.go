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

// Metrics exposes loyalty engine instruments.
type Metrics struct {
	completions          metric.Int64Counter
	xpAwarded            metric.Int64Counter
	levelUps             metric.Int64Counter
	rewardsIssued        metric.Int64Counter
	rewardIssueFailures  metric.Int64Counter
	notificationFailures metric.Int64Counter
	rewardsExpired       metric.Int64Counter
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

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the loyalty instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "reservaspro"
	}
	meter := provider.Meter(name)

	var err error
	m := &Metrics{}
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.completions, "reservaspro_booking_completions_total", "Bookings transitioned to completed."},
		{&m.xpAwarded, "reservaspro_xp_awarded_total", "XP granted to client profiles."},
		{&m.levelUps, "reservaspro_level_ups_total", "Client profile level-ups."},
		{&m.rewardsIssued, "reservaspro_rewards_issued_total", "Rewards issued on level-up."},
		{&m.rewardIssueFailures, "reservaspro_reward_issue_failures_total", "Reward issuance failures after XP commit."},
		{&m.notificationFailures, "reservaspro_notification_failures_total", "Swallowed notification send failures."},
		{&m.rewardsExpired, "reservaspro_rewards_expired_total", "Rewards moved to expired by the sweep."},
	}
	for _, c := range counters {
		*c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewNoop returns instruments backed by a no-op provider.
func NewNoop() *Metrics {
	m, _ := New(Config{}, noop.NewMeterProvider())
	return m
}

// RecordCompletion counts a booking completion and whether loyalty effects applied.
func (m *Metrics) RecordCompletion(ctx context.Context, orgID string, loyalty bool) {
	if m == nil {
		return
	}
	reason := "loyalty"
	if !loyalty {
		reason = "no_profile"
	}
	attrs := FilterAttributes(
		attribute.String("org_id", strings.TrimSpace(orgID)),
		attribute.String("reason", reason),
	)
	m.completions.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordXPAwarded adds granted XP.
func (m *Metrics) RecordXPAwarded(ctx context.Context, orgID string, xp int) {
	if m == nil || xp <= 0 {
		return
	}
	attrs := FilterAttributes(attribute.String("org_id", strings.TrimSpace(orgID)))
	m.xpAwarded.Add(ctx, int64(xp), metric.WithAttributes(attrs...))
}

// RecordLevelUp counts a level-up to the given level number.
func (m *Metrics) RecordLevelUp(ctx context.Context, orgID string, levelNumber int) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("org_id", strings.TrimSpace(orgID)),
		attribute.Int("level_number", levelNumber),
	)
	m.levelUps.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRewardIssued counts an issued reward by type.
func (m *Metrics) RecordRewardIssued(ctx context.Context, orgID, rewardType string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("org_id", strings.TrimSpace(orgID)),
		attribute.String("reward_type", strings.TrimSpace(rewardType)),
	)
	m.rewardsIssued.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRewardIssueFailure counts a reward that could not be persisted.
func (m *Metrics) RecordRewardIssueFailure(ctx context.Context, orgID, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("org_id", strings.TrimSpace(orgID)),
		attribute.String("reason", strings.TrimSpace(reason)),
	)
	m.rewardIssueFailures.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordNotificationFailure counts a notification that failed to send.
func (m *Metrics) RecordNotificationFailure(ctx context.Context, provider, template string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("provider", strings.TrimSpace(provider)),
		attribute.String("template", strings.TrimSpace(template)),
	)
	m.notificationFailures.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRewardsExpired adds rewards expired by the sweep.
func (m *Metrics) RecordRewardsExpired(ctx context.Context, count int64) {
	if m == nil || count <= 0 {
		return
	}
	m.rewardsExpired.Add(ctx, count)
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
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
	"org_id":       {},
	"reason":       {},
	"level_number": {},
	"reward_type":  {},
	"provider":     {},
	"template":     {},
	"status_code":  {},
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
