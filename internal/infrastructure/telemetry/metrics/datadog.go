package metrics

import (
	"fmt"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
)

type datadogMetrics struct {
	client *statsd.Client
}

var _ Metrics = (*datadogMetrics)(nil)

func NewDatadogMetrics(addr string, namespace string, tags []string) (Metrics, error) {
	client, err := statsd.New(addr,
		statsd.WithNamespace(namespace),
		statsd.WithTags(tags),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize dogstatsd: %w", err)
	}

	return &datadogMetrics{client: client}, nil
}

func (m *datadogMetrics) Incr(name string, tags []string) {
	_ = m.client.Incr(name, tags, 1.0)
}

func (m *datadogMetrics) Distribution(name string, value float64, tags []string) {
	_ = m.client.Distribution(name, value, tags, 1.0)
}

func (m *datadogMetrics) Timing(name string, value time.Duration, tags []string) {
	_ = m.client.Timing(name, value, tags, 1.0)
}

func (m *datadogMetrics) RecordItem(stage string, outcome string, duration float64) {
	tags := []string{
		fmt.Sprintf("stage:%s", stage),
		fmt.Sprintf("outcome:%s", outcome),
	}
	_ = m.client.Incr("pipeline.item.total", tags, 1.0)
	_ = m.client.Distribution("pipeline.item.duration", duration, tags, 1.0)
}

func (m *datadogMetrics) RecordQueueDepth(queue string, depth float64) {
	_ = m.client.Gauge("pipeline.queue.depth", depth, []string{fmt.Sprintf("queue:%s", queue)}, 1.0)
}

func (m *datadogMetrics) Close() error {
	return m.client.Close()
}
