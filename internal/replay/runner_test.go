package replay

import (
	"context"
	"iter"
	"testing"

	"github.com/rxtech-lab/argo-policy/internal/config"
	"github.com/rxtech-lab/argo-policy/internal/logger"
	"github.com/rxtech-lab/argo-policy/internal/policy"
	"github.com/rxtech-lab/argo-policy/internal/position"
	"github.com/rxtech-lab/argo-policy/internal/types"
	"github.com/rxtech-lab/argo-policy/mocks"
	"github.com/rxtech-lab/argo-policy/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RunnerTestSuite struct {
	suite.Suite
}

func TestRunnerSuite(t *testing.T) {
	suite.Run(t, new(RunnerTestSuite))
}

func (suite *RunnerTestSuite) newPolicy() *policy.Policy {
	fairValue := 10000.0

	registry := policy.NewRuleRegistry()
	suite.Require().NoError(registry.RegisterRule(
		policy.NewStableQuote("PEARLS", config.StableQuoteConfig{FairValue: &fairValue, HalfSpread: 1})))
	suite.Require().NoError(registry.RegisterRule(
		policy.NewTrendFollow("BANANAS", config.TrendFollowConfig{Mode: types.TrendModeReversal, TrendLength: 3})))

	p, err := policy.New(position.Limits{"PEARLS": 20, "BANANAS": 20}, registry, logger.NewNopLogger())
	suite.Require().NoError(err)

	return p
}

func snapshotAt(timestamp int64) types.Snapshot {
	return types.Snapshot{
		Timestamp: timestamp,
		OrderBooks: map[string]types.OrderBook{
			"PEARLS":  {BuyOrders: map[int]int{9998: 5}, SellOrders: map[int]int{10002: -5}},
			"BANANAS": {BuyOrders: map[int]int{4998: 5}, SellOrders: map[int]int{5002: -5}},
		},
	}
}

func (suite *RunnerTestSuite) TestRunRecordsEveryStep() {
	ctrl := gomock.NewController(suite.T())
	defer ctrl.Finish()

	recorder := mocks.NewMockRecorder(ctrl)
	runner, err := NewRunner(suite.newPolicy(), recorder, nil)
	suite.Require().NoError(err)

	var runIDs []string

	recorder.EXPECT().RecordStep(gomock.Any(), gomock.Any()).DoAndReturn(func(runID string, trace policy.Trace) error {
		runIDs = append(runIDs, runID)

		// PEARLS quotes every step
		suite.Len(trace.Orders["PEARLS"], 2)

		return nil
	}).Times(3)

	source := NewSliceSource([]types.Snapshot{snapshotAt(0), snapshotAt(100), snapshotAt(200)})

	summary, err := runner.Run(context.Background(), source, Callbacks{})
	suite.Require().NoError(err)

	suite.Equal(3, summary.Steps)
	suite.Equal(6, summary.Orders)
	suite.Equal(0, summary.Duplicates)
	// BANANAS needs trend_length + 1 VWAPs before it can decide
	suite.Equal(3, summary.Skipped)
	suite.NotEmpty(summary.RunID)

	for _, runID := range runIDs {
		suite.Equal(summary.RunID, runID)
	}
}

func (suite *RunnerTestSuite) TestRunCountsDuplicates() {
	runner, err := NewRunner(suite.newPolicy(), nil, nil)
	suite.Require().NoError(err)

	source := NewSliceSource([]types.Snapshot{snapshotAt(0), snapshotAt(0), snapshotAt(100)})

	summary, err := runner.Run(context.Background(), source, Callbacks{})
	suite.Require().NoError(err)

	suite.Equal(3, summary.Steps)
	suite.Equal(1, summary.Duplicates)
	suite.NoError(runner.Write(suite.T().TempDir()))
}

func (suite *RunnerTestSuite) TestCallbacks() {
	runner, err := NewRunner(suite.newPolicy(), nil, nil)
	suite.Require().NoError(err)

	var (
		started  bool
		total    int
		progress []int
		ended    bool
	)

	onStart := OnRunStartCallback(func(runID string, totalSnapshots int) error {
		started = true
		total = totalSnapshots

		return nil
	})
	onStep := OnStepCallback(func(current int, _ int, _ policy.Trace) error {
		progress = append(progress, current)

		return nil
	})
	onEnd := OnRunEndCallback(func(summary Summary, err error) {
		ended = true

		suite.NoError(err)
		suite.Equal(2, summary.Steps)
	})

	source := NewSliceSource([]types.Snapshot{snapshotAt(0), snapshotAt(100)})

	_, err = runner.Run(context.Background(), source, Callbacks{
		OnRunStart: &onStart,
		OnStep:     &onStep,
		OnRunEnd:   &onEnd,
	})
	suite.Require().NoError(err)

	suite.True(started)
	suite.Equal(2, total)
	suite.Equal([]int{1, 2}, progress)
	suite.True(ended)
}

func (suite *RunnerTestSuite) TestCallbackAbortsRun() {
	runner, err := NewRunner(suite.newPolicy(), nil, nil)
	suite.Require().NoError(err)

	stop := errors.New(errors.ErrCodeUnknown, "stop")
	onStep := OnStepCallback(func(current int, _ int, _ policy.Trace) error {
		if current == 2 {
			return stop
		}

		return nil
	})

	source := NewSliceSource([]types.Snapshot{snapshotAt(0), snapshotAt(100), snapshotAt(200)})

	summary, err := runner.Run(context.Background(), source, Callbacks{OnStep: &onStep})
	suite.ErrorIs(err, stop)
	suite.Equal(2, summary.Steps)
}

func (suite *RunnerTestSuite) TestRecorderError() {
	ctrl := gomock.NewController(suite.T())
	defer ctrl.Finish()

	recorder := mocks.NewMockRecorder(ctrl)
	recorder.EXPECT().RecordStep(gomock.Any(), gomock.Any()).
		Return(errors.New(errors.ErrCodeJournalWriteFailed, "disk full")).Times(1)

	runner, err := NewRunner(suite.newPolicy(), recorder, nil)
	suite.Require().NoError(err)

	_, err = runner.Run(context.Background(), NewSliceSource([]types.Snapshot{snapshotAt(0), snapshotAt(100)}), Callbacks{})
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeJournalWriteFailed, errors.GetCode(err))
}

func (suite *RunnerTestSuite) TestSourceErrors() {
	ctrl := gomock.NewController(suite.T())
	defer ctrl.Finish()

	runner, err := NewRunner(suite.newPolicy(), nil, nil)
	suite.Require().NoError(err)

	failingCount := mocks.NewMockSource(ctrl)
	failingCount.EXPECT().Count().Return(0, errors.New(errors.ErrCodeReplaySourceFailed, "unreadable"))

	_, err = runner.Run(context.Background(), failingCount, Callbacks{})
	suite.Equal(errors.ErrCodeReplaySourceFailed, errors.GetCode(err))

	var readAll iter.Seq2[types.Snapshot, error] = func(yield func(types.Snapshot, error) bool) {
		if !yield(snapshotAt(0), nil) {
			return
		}

		yield(types.Snapshot{}, errors.New(errors.ErrCodeReplayDecodeFailed, "bad line"))
	}

	failingRead := mocks.NewMockSource(ctrl)
	failingRead.EXPECT().Count().Return(2, nil)
	failingRead.EXPECT().ReadAll(gomock.Any()).Return(readAll)

	summary, err := runner.Run(context.Background(), failingRead, Callbacks{})
	suite.Equal(errors.ErrCodeReplayDecodeFailed, errors.GetCode(err))
	suite.Equal(1, summary.Steps)
}

func (suite *RunnerTestSuite) TestCancelledContext() {
	runner, err := NewRunner(suite.newPolicy(), nil, nil)
	suite.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := runner.Run(ctx, NewSliceSource([]types.Snapshot{snapshotAt(0)}), Callbacks{})
	suite.ErrorIs(err, context.Canceled)
	suite.Equal(0, summary.Steps)
}

func (suite *RunnerTestSuite) TestWithJournal() {
	journal, err := NewJournal(logger.NewNopLogger())
	suite.Require().NoError(err)

	defer journal.Close()

	runner, err := NewRunner(suite.newPolicy(), journal, nil)
	suite.Require().NoError(err)

	summary, err := runner.Run(context.Background(), NewSliceSource(GenerateSnapshots(50)), Callbacks{})
	suite.Require().NoError(err)

	steps, err := journal.GetSteps(summary.RunID)
	suite.Require().NoError(err)
	suite.Len(steps, 50)

	orders, err := journal.GetOrders(summary.RunID)
	suite.Require().NoError(err)
	suite.Len(orders, summary.Orders)

	for _, order := range orders {
		suite.LessOrEqual(order.Order.Magnitude(), 20)
	}

	suite.NoError(runner.Write(suite.T().TempDir()))
}

func (suite *RunnerTestSuite) TestNoPolicy() {
	_, err := NewRunner(nil, nil, nil)
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeReplayNoPolicy, errors.GetCode(err))
}
