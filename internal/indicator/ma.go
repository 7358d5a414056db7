package indicator

import (
	"github.com/rxtech-lab/argo-policy/pkg/errors"
)

// MovingAverage returns the mean of the last min(len(history), window) values.
// Early in a run this is an average over fewer points than window.
func MovingAverage(history []float64, window int) (float64, error) {
	if window <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidPeriod, "window must be a positive integer, got %d", window)
	}

	if len(history) == 0 {
		return 0, errors.NewInsufficientDataError(1, 0, "", "moving average needs at least one value")
	}

	return calculateSimpleMovingAverage(trailing(history, window)), nil
}

// ExponentialMovingAverage runs an EMA with multiplier 2/(window+1) over the last
// min(len(history), window) values, seeded with the first of them.
func ExponentialMovingAverage(history []float64, window int) (float64, error) {
	if window <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidPeriod, "window must be a positive integer, got %d", window)
	}

	if len(history) == 0 {
		return 0, errors.NewInsufficientDataError(1, 0, "", "exponential moving average needs at least one value")
	}

	values := trailing(history, window)
	multiplier := 2.0 / float64(window+1)

	ema := values[0]
	for _, v := range values[1:] {
		ema = (v-ema)*multiplier + ema
	}

	return ema, nil
}

// calculateSimpleMovingAverage uses a running mean so a constant window averages to exactly that constant.
func calculateSimpleMovingAverage(values []float64) float64 {
	mean := 0.0
	for i, v := range values {
		mean += (v - mean) / float64(i+1)
	}

	return mean
}

// trailing returns the last n values of history without copying.
func trailing(history []float64, n int) []float64 {
	if n >= len(history) {
		return history
	}

	return history[len(history)-n:]
}
