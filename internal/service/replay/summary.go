package replay

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/oshokin/ae-conditions/internal/logger"
)

// logSummary logs the replay totals and every counter gathered from registry.
func logSummary(ctx context.Context, summary *Summary, registry prometheus.Gatherer) {
	logger.InfoKV(ctx, "Replay finished",
		"steps", summary.Steps,
		"requests", summary.Requests,
		"notifications", summary.Notifications,
		"acknowledged", summary.Acknowledged,
		"events", summary.Events,
		"rejected", summary.Rejected)

	families, err := registry.Gather()
	if err != nil {
		logger.WarnKV(ctx, "Failed to gather metrics", "error", err)

		return
	}

	for _, family := range families {
		if family.GetType() != dto.MetricType_COUNTER {
			continue
		}

		for _, metric := range family.GetMetric() {
			kvs := []any{"value", metric.GetCounter().GetValue()}
			for _, pair := range metric.GetLabel() {
				kvs = append(kvs, pair.GetName(), pair.GetValue())
			}

			logger.InfoKV(ctx, family.GetName(), kvs...)
		}
	}
}
