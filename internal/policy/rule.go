package policy

import (
	"github.com/rxtech-lab/argo-policy/internal/history"
	"github.com/rxtech-lab/argo-policy/internal/indicator"
	"github.com/rxtech-lab/argo-policy/internal/position"
	"github.com/rxtech-lab/argo-policy/internal/types"
	"github.com/rxtech-lab/argo-policy/pkg/errors"
)

// Rule is the decision logic for one product.
type Rule interface {
	// Type returns the rule variant.
	Type() types.RuleType
	// Product returns the product the rule trades.
	Product() string
	// Dependencies returns the other products and observation keys whose history the rule reads.
	Dependencies() []string
	// Decide returns the decisions for the current step. It must not mutate anything.
	// A missing-data error makes the policy skip the rule for this step.
	Decide(ctx StepContext) ([]types.Decision, error)
}

// StepContext is what a rule sees during one step.
type StepContext struct {
	Snapshot types.Snapshot
	History  history.Reader
	// Capacity is the clamped capacity of the rule's product at the start of the step.
	Capacity position.Capacity
}

// Book returns the order book of product or a missing-order-book error.
func (c StepContext) Book(product string) (types.OrderBook, error) {
	book, ok := c.Snapshot.Book(product)
	if !ok {
		return types.OrderBook{}, errors.Newf(errors.ErrCodeMissingOrderBook, "no order book for %s", product)
	}

	return book, nil
}

// Mid returns the current mid price of product.
func (c StepContext) Mid(product string) (float64, error) {
	book, err := c.Book(product)
	if err != nil {
		return 0, err
	}

	mid, err := indicator.MidPrice(book)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeEmptyBook, err, "no mid price for %s", product)
	}

	return mid, nil
}

// Observation returns the current value of key or a missing-observation error.
func (c StepContext) Observation(key string) (float64, error) {
	value, ok := c.Snapshot.Observation(key)
	if !ok {
		return 0, errors.Newf(errors.ErrCodeMissingObservation, "observation %s absent at %d", key, c.Snapshot.Timestamp)
	}

	return value, nil
}

// bestPrices returns the best bid and best ask of product.
func (c StepContext) bestPrices(product string) (bid types.Level, ask types.Level, err error) {
	book, err := c.Book(product)
	if err != nil {
		return bid, ask, err
	}

	if bid, err = indicator.BestBid(book); err != nil {
		return bid, ask, err
	}

	if ask, err = indicator.BestAsk(book); err != nil {
		return bid, ask, err
	}

	return bid, ask, nil
}

// lastMove returns the last two values of a series as (previous, last).
func lastMove(reader history.Reader, key string, series history.Series) (float64, float64, error) {
	last := reader.Last(key, series)
	previous := reader.Previous(key, series)

	if previous.IsNone() {
		return 0, 0, errors.NewInsufficientDataErrorf(2, reader.Len(key, series), key,
			"%s %s needs two observed steps", key, series)
	}

	return previous.Unwrap(), last.Unwrap(), nil
}
