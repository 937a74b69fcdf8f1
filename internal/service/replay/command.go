package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/oshokin/ae-conditions/internal/api/event"
	"github.com/oshokin/ae-conditions/internal/logger"
	"github.com/oshokin/ae-conditions/internal/metrics"
	"github.com/oshokin/ae-conditions/internal/repository/script"
	"github.com/oshokin/ae-conditions/internal/service/common"
	"github.com/oshokin/ae-conditions/internal/service/engine"
)

// Options controls a replay run.
type Options struct {
	// Output receives the protojson lines, stdout when nil.
	Output io.Writer
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ScriptPath to the YAML replay script.
	ScriptPath string
	// Strict makes the run fail when any request was rejected.
	Strict bool
}

var (
	// ErrScriptRequired is returned when no script path is given.
	ErrScriptRequired = errors.New("script path must be provided")
	// ErrRejected is returned in strict mode when the engine rejected a request.
	ErrRejected = errors.New("requests were rejected")
)

// Run loads the catalog and the script and replays every step in order.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "replay")

	if opts.ScriptPath == "" {
		return ErrScriptRequired
	}

	_, cat, err := common.LoadCatalog(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}

	s, err := script.NewFileRepository(opts.ScriptPath).Load(ctx)
	if err != nil {
		return fmt.Errorf("load script: %w", err)
	}

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	registry := prometheus.NewRegistry()

	m, err := metrics.New(registry)
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	writer := event.NewWriter(output)

	eng, err := engine.New(cat,
		engine.WithConditionSink(writer),
		engine.WithEventSink(writer),
		engine.WithAckSink(writer),
		engine.WithAckNotifier(new(ackLogger)),
		engine.WithMetrics(m),
	)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	logger.InfoKV(ctx, "Replaying script", "script_path", opts.ScriptPath, "steps", len(s.Steps))

	r := newRunner(eng, common.DetectActor)

	summary, err := r.run(ctx, s)
	if err != nil {
		return err
	}

	logSummary(ctx, &summary, registry)

	if opts.Strict && summary.Rejected > 0 {
		return fmt.Errorf("%w: %d of %d", ErrRejected, summary.Rejected, summary.Requests)
	}

	return nil
}

// ackLogger accepts every acknowledgment and logs it.
type ackLogger struct{}

// OnAckNotification logs the acknowledged condition.
func (ackLogger) OnAckNotification(ctx context.Context, conditionID, subConditionID uint32) error {
	logger.DebugKV(ctx, "Acknowledgment forwarded",
		"condition_id", conditionID,
		"sub_condition_id", subConditionID)

	return nil
}
