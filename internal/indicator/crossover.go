package indicator

import (
	"github.com/rxtech-lab/argo-policy/internal/types"
	"github.com/rxtech-lab/argo-policy/pkg/errors"
)

// Crossover compares the last two points of a fast and a slow average sequence.
// A golden cross (fast moves from at-or-below slow to above) is a buy,
// a death cross (fast moves from at-or-above slow to below) is a sell.
//
// Equality on the previous point counts as the pre-cross side, so a touch followed
// by a break is a cross. A cross that passes through equality over two steps is
// reported once, on the step that breaks away; the touching step itself is no-action.
func Crossover(fast, slow []float64) (types.SignalType, error) {
	if len(fast) < 2 || len(slow) < 2 {
		return types.SignalTypeNoAction, errors.NewInsufficientDataErrorf(2, min(len(fast), len(slow)), "",
			"crossover needs two points of each average")
	}

	prevFast, curFast := fast[len(fast)-2], fast[len(fast)-1]
	prevSlow, curSlow := slow[len(slow)-2], slow[len(slow)-1]

	switch {
	case prevFast <= prevSlow && curFast > curSlow:
		return types.SignalTypeBuy, nil
	case prevFast >= prevSlow && curFast < curSlow:
		return types.SignalTypeSell, nil
	default:
		return types.SignalTypeNoAction, nil
	}
}

// MovingAverageCrossover derives the previous and current fast and slow moving averages
// from one base series and reports the cross between them.
// The series must hold at least slowWindow+1 values so both slow averages cover a full window.
func MovingAverageCrossover(series []float64, fastWindow, slowWindow int) (types.SignalType, error) {
	if fastWindow <= 0 || slowWindow <= fastWindow {
		return types.SignalTypeNoAction, errors.Newf(errors.ErrCodeInvalidWindow,
			"need 0 < fast window < slow window, got fast=%d slow=%d", fastWindow, slowWindow)
	}

	if len(series) < slowWindow+1 {
		return types.SignalTypeNoAction, errors.NewInsufficientDataErrorf(slowWindow+1, len(series), "",
			"moving average crossover needs %d values, got %d", slowWindow+1, len(series))
	}

	previous := series[:len(series)-1]

	fast := make([]float64, 2)
	slow := make([]float64, 2)

	for i, s := range [][]float64{previous, series} {
		var err error

		if fast[i], err = MovingAverage(s, fastWindow); err != nil {
			return types.SignalTypeNoAction, err
		}

		if slow[i], err = MovingAverage(s, slowWindow); err != nil {
			return types.SignalTypeNoAction, err
		}
	}

	return Crossover(fast, slow)
}
