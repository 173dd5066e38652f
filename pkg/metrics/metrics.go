// Package metrics emits run counters and timings over statsd. A sink built
// without a statsd address is a no-op, so callers never branch on whether
// metrics are configured.
package metrics

import (
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"go.uber.org/zap"
)

const (
	Metric_Incr_DistributionRun       = "distribution.run"
	Metric_Incr_DistributionRunFailed = "distribution.run.failed"
	Metric_Timing_DistributionRun     = "distribution.run.duration"
)

type MetricsSinkConfig struct {
	StatsdUrl string
}

type MetricsSink struct {
	logger *zap.Logger
	client statsd.ClientInterface
}

func NewMetricsSink(cfg *MetricsSinkConfig, l *zap.Logger) (*MetricsSink, error) {
	sink := &MetricsSink{logger: l}
	if cfg == nil || cfg.StatsdUrl == "" {
		sink.client = &statsd.NoOpClient{}
		return sink, nil
	}

	client, err := statsd.New(cfg.StatsdUrl)
	if err != nil {
		return nil, err
	}
	sink.client = client
	return sink, nil
}

func (s *MetricsSink) Incr(name string, tags []string) {
	if err := s.client.Incr(name, tags, 1); err != nil {
		s.logger.Sugar().Debugw("Failed to emit counter", zap.String("name", name), zap.Error(err))
	}
}

func (s *MetricsSink) Timing(name string, d time.Duration, tags []string) {
	if err := s.client.Timing(name, d, tags, 1); err != nil {
		s.logger.Sugar().Debugw("Failed to emit timing", zap.String("name", name), zap.Error(err))
	}
}

func (s *MetricsSink) Flush() {
	_ = s.client.Flush()
}
