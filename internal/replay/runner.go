// Package replay drives a policy over a recorded stream of snapshots.
//
// A Runner reads snapshots from a Source, steps the policy once per snapshot
// and hands every step's trace to a Recorder. The Journal recorder keeps the
// steps, orders, decisions and skipped rules in DuckDB and exports them to
// parquet once the run is over.
package replay

import (
	"context"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-policy/internal/logger"
	"github.com/rxtech-lab/argo-policy/internal/policy"
	"github.com/rxtech-lab/argo-policy/pkg/errors"
	"go.uber.org/zap"
)

// Recorder receives the outcome of every replayed step.
type Recorder interface {
	// RecordStep stores the trace of one step of run runID.
	RecordStep(runID string, trace policy.Trace) error
	// Write exports everything recorded so far into the folder at path.
	Write(path string) error
}

// OnRunStartCallback is called once before the first snapshot is stepped.
type OnRunStartCallback func(runID string, totalSnapshots int) error

// OnStepCallback is called after each stepped snapshot. current is 1-based.
type OnStepCallback func(current int, total int, trace policy.Trace) error

// OnRunEndCallback is called when the run ends, with the error that ended it if any.
type OnRunEndCallback func(summary Summary, err error)

// Callbacks holds the run lifecycle callbacks. A nil field is not invoked.
type Callbacks struct {
	OnRunStart *OnRunStartCallback
	OnStep     *OnStepCallback
	OnRunEnd   *OnRunEndCallback
}

// Summary counts what happened during a run.
type Summary struct {
	RunID string
	// Steps is the number of snapshots handed to the policy.
	Steps  int
	Orders int
	// Skipped counts rule evaluations skipped for missing data.
	Skipped int
	// Duplicates counts snapshots that were not newer than the previous one.
	Duplicates int
}

// Runner replays snapshots through a policy.
type Runner struct {
	policy   *policy.Policy
	recorder optional.Option[Recorder]
	logger   *logger.Logger
}

// NewRunner creates a runner. recorder may be nil to replay without recording.
func NewRunner(p *policy.Policy, recorder Recorder, log *logger.Logger) (*Runner, error) {
	if p == nil {
		return nil, errors.New(errors.ErrCodeReplayNoPolicy, "policy is required")
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	rec := optional.None[Recorder]()
	if recorder != nil {
		rec = optional.Some(recorder)
	}

	return &Runner{
		policy:   p,
		recorder: rec,
		logger:   log,
	}, nil
}

// Run steps the policy over every snapshot of source. It stops at the first
// source, policy or recorder error, or when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, source Source, callbacks Callbacks) (summary Summary, err error) {
	summary.RunID = uuid.New().String()

	defer func() {
		if callbacks.OnRunEnd != nil {
			(*callbacks.OnRunEnd)(summary, err)
		}
	}()

	total, err := source.Count()
	if err != nil {
		return summary, err
	}

	r.logger.Info("Starting replay",
		zap.String("run_id", summary.RunID),
		zap.Int("snapshots", total),
		zap.Strings("products", r.policy.Products()),
	)

	if callbacks.OnRunStart != nil {
		if err := (*callbacks.OnRunStart)(summary.RunID, total); err != nil {
			return summary, err
		}
	}

	for snapshot, readErr := range source.ReadAll(ctx) {
		if readErr != nil {
			return summary, readErr
		}

		if err := ctx.Err(); err != nil {
			r.logger.Info("Replay cancelled", zap.String("run_id", summary.RunID), zap.Int("steps", summary.Steps))

			return summary, err
		}

		trace, err := r.policy.StepWithTrace(snapshot)
		if err != nil {
			r.logger.Error("Step failed", zap.Int64("timestamp", snapshot.Timestamp), zap.Error(err))

			return summary, err
		}

		summary.Steps++
		summary.Orders += trace.Orders.Count()
		summary.Skipped += len(trace.Skipped)

		if !trace.Observed {
			summary.Duplicates++
		}

		if recorder, err := r.recorder.Take(); err == nil {
			if err := recorder.RecordStep(summary.RunID, trace); err != nil {
				return summary, err
			}
		}

		if callbacks.OnStep != nil {
			if err := (*callbacks.OnStep)(summary.Steps, total, trace); err != nil {
				return summary, err
			}
		}
	}

	r.logger.Info("Replay finished",
		zap.String("run_id", summary.RunID),
		zap.Int("steps", summary.Steps),
		zap.Int("orders", summary.Orders),
		zap.Int("skipped", summary.Skipped),
		zap.Int("duplicates", summary.Duplicates),
	)

	return summary, nil
}

// Write exports the recorder's contents to path. It is a no-op without a recorder.
func (r *Runner) Write(path string) error {
	recorder, err := r.recorder.Take()
	if err != nil {
		return nil
	}

	return recorder.Write(path)
}
