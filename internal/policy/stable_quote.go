package policy

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-policy/internal/config"
	"github.com/rxtech-lab/argo-policy/internal/history"
	"github.com/rxtech-lab/argo-policy/internal/indicator"
	"github.com/rxtech-lab/argo-policy/internal/types"
	"github.com/rxtech-lab/argo-policy/internal/utils"
)

// StableQuote quotes a fixed half spread around a fair value for products
// that do not trend. Buys are rounded up and sells rounded down.
type StableQuote struct {
	product    string
	fairValue  optional.Option[float64]
	window     int
	halfSpread float64
}

func NewStableQuote(product string, cfg config.StableQuoteConfig) *StableQuote {
	fairValue := optional.None[float64]()
	if cfg.FairValue != nil {
		fairValue = optional.Some(*cfg.FairValue)
	}

	return &StableQuote{
		product:    product,
		fairValue:  fairValue,
		window:     cfg.Window,
		halfSpread: cfg.HalfSpread,
	}
}

func (r *StableQuote) Type() types.RuleType {
	return types.RuleTypeStableQuote
}

func (r *StableQuote) Product() string {
	return r.product
}

func (r *StableQuote) Dependencies() []string {
	return nil
}

func (r *StableQuote) Decide(ctx StepContext) ([]types.Decision, error) {
	fairValue, err := r.estimate(ctx)
	if err != nil {
		return nil, err
	}

	reason := fmt.Sprintf("fair value %.2f, half spread %.2f", fairValue, r.halfSpread)

	return []types.Decision{
		types.BuyAll(r.product, utils.RoundBuyPrice(fairValue-r.halfSpread), reason),
		types.SellAll(r.product, utils.RoundSellPrice(fairValue+r.halfSpread), reason),
	}, nil
}

func (r *StableQuote) estimate(ctx StepContext) (float64, error) {
	if r.fairValue.IsSome() {
		return r.fairValue.Unwrap(), nil
	}

	return indicator.MovingAverage(ctx.History.Values(r.product, history.SeriesMid), r.window)
}
