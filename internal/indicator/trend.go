package indicator

import (
	"github.com/rxtech-lab/argo-policy/internal/types"
	"github.com/rxtech-lab/argo-policy/pkg/errors"
)

// IsMonotonicIncreasing reports whether every consecutive pair is non-decreasing.
// One violating pair anywhere disqualifies the whole sequence.
func IsMonotonicIncreasing(sequence []float64) bool {
	for i := 1; i < len(sequence); i++ {
		if sequence[i] < sequence[i-1] {
			return false
		}
	}

	return true
}

// IsMonotonicDecreasing reports whether every consecutive pair is non-increasing.
func IsMonotonicDecreasing(sequence []float64) bool {
	for i := 1; i < len(sequence); i++ {
		if sequence[i] > sequence[i-1] {
			return false
		}
	}

	return true
}

// TrendReversal looks at the last length+1 values of series.
// It returns buy when the newest value rises after a monotonic-decreasing run of length values,
// sell when it falls after a monotonic-increasing run, and no-action otherwise.
func TrendReversal(series []float64, length int) (types.SignalType, error) {
	if length < 2 {
		return types.SignalTypeNoAction, errors.Newf(errors.ErrCodeInvalidWindow, "trend length must be at least 2, got %d", length)
	}

	if len(series) <= length {
		return types.SignalTypeNoAction, errors.NewInsufficientDataErrorf(length+1, len(series), "",
			"trend reversal needs %d values, got %d", length+1, len(series))
	}

	run := series[len(series)-1-length : len(series)-1]
	last := series[len(series)-1]
	prev := series[len(series)-2]

	switch {
	case last > prev && IsMonotonicDecreasing(run):
		return types.SignalTypeBuy, nil
	case last < prev && IsMonotonicIncreasing(run):
		return types.SignalTypeSell, nil
	default:
		return types.SignalTypeNoAction, nil
	}
}
