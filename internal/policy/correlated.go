package policy

import (
	"fmt"

	"github.com/rxtech-lab/argo-policy/internal/config"
	"github.com/rxtech-lab/argo-policy/internal/history"
	"github.com/rxtech-lab/argo-policy/internal/types"
)

// CorrelatedObservation trades on the change of an external observation since the
// previous step on which it was observed.
type CorrelatedObservation struct {
	product string
	config  config.CorrelatedConfig
}

func NewCorrelatedObservation(product string, cfg config.CorrelatedConfig) *CorrelatedObservation {
	return &CorrelatedObservation{
		product: product,
		config:  cfg,
	}
}

func (r *CorrelatedObservation) Type() types.RuleType {
	return types.RuleTypeCorrelatedObservation
}

func (r *CorrelatedObservation) Product() string {
	return r.product
}

func (r *CorrelatedObservation) Dependencies() []string {
	return []string{r.config.Observation}
}

func (r *CorrelatedObservation) Decide(ctx StepContext) ([]types.Decision, error) {
	if _, err := ctx.Observation(r.config.Observation); err != nil {
		return nil, err
	}

	bid, ask, err := ctx.bestPrices(r.product)
	if err != nil {
		return nil, err
	}

	previous, last, err := lastMove(ctx.History, r.config.Observation, history.SeriesObservation)
	if err != nil {
		return nil, err
	}

	delta := last - previous
	reason := fmt.Sprintf("%s changed by %.2f", r.config.Observation, delta)

	direction := types.SignalTypeNoAction

	switch {
	case delta > r.config.Threshold:
		direction = types.SignalTypeBuy
	case delta < -r.config.Threshold:
		direction = types.SignalTypeSell
	}

	if r.config.Inverse {
		direction = direction.Opposite()
	}

	switch direction {
	case types.SignalTypeBuy:
		return []types.Decision{types.BuyAll(r.product, ask.Price, reason)}, nil
	case types.SignalTypeSell:
		return []types.Decision{types.SellAll(r.product, bid.Price, reason)}, nil
	default:
		return nil, nil
	}
}
