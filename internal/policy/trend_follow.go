package policy

import (
	"fmt"

	"github.com/rxtech-lab/argo-policy/internal/config"
	"github.com/rxtech-lab/argo-policy/internal/history"
	"github.com/rxtech-lab/argo-policy/internal/indicator"
	"github.com/rxtech-lab/argo-policy/internal/types"
	"github.com/rxtech-lab/argo-policy/internal/utils"
	"github.com/rxtech-lab/argo-policy/pkg/errors"
)

// TrendFollow trades products whose price trends. It runs in one of three modes:
//
//   - quote: quote around a moving average of the mid price with a half spread
//     proportional to the current book spread
//   - crossover: cross the spread on a fast/slow moving average cross of the VWAP
//   - reversal: cross the spread when the VWAP breaks a monotonic run
//
// Buy signals read the ask-side VWAP and sell signals read the bid-side VWAP.
type TrendFollow struct {
	product string
	config  config.TrendFollowConfig
}

func NewTrendFollow(product string, cfg config.TrendFollowConfig) *TrendFollow {
	return &TrendFollow{
		product: product,
		config:  cfg,
	}
}

func (r *TrendFollow) Type() types.RuleType {
	return types.RuleTypeTrendFollow
}

func (r *TrendFollow) Product() string {
	return r.product
}

func (r *TrendFollow) Dependencies() []string {
	return nil
}

func (r *TrendFollow) Decide(ctx StepContext) ([]types.Decision, error) {
	switch r.config.Mode {
	case types.TrendModeQuote:
		return r.quote(ctx)
	case types.TrendModeCrossover:
		return r.signal(ctx, func(series []float64) (types.SignalType, error) {
			return indicator.MovingAverageCrossover(series, r.config.FastWindow, r.config.SlowWindow)
		})
	case types.TrendModeReversal:
		return r.signal(ctx, func(series []float64) (types.SignalType, error) {
			return indicator.TrendReversal(series, r.config.TrendLength)
		})
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedRule, "unknown trend mode %q", r.config.Mode)
	}
}

func (r *TrendFollow) quote(ctx StepContext) ([]types.Decision, error) {
	book, err := ctx.Book(r.product)
	if err != nil {
		return nil, err
	}

	spread, err := indicator.Spread(book)
	if err != nil {
		return nil, err
	}

	mids := ctx.History.Values(r.product, history.SeriesMid)

	var fairValue float64
	if r.config.Exponential {
		fairValue, err = indicator.ExponentialMovingAverage(mids, r.config.Window)
	} else {
		fairValue, err = indicator.MovingAverage(mids, r.config.Window)
	}

	if err != nil {
		return nil, err
	}

	halfSpread := float64(spread) * r.config.SpreadCoefficient
	reason := fmt.Sprintf("trend fair value %.2f, half spread %.2f", fairValue, halfSpread)

	return []types.Decision{
		types.BuyAll(r.product, utils.RoundBuyPrice(fairValue-halfSpread), reason),
		types.SellAll(r.product, utils.RoundSellPrice(fairValue+halfSpread), reason),
	}, nil
}

func (r *TrendFollow) signal(ctx StepContext, detect func([]float64) (types.SignalType, error)) ([]types.Decision, error) {
	bid, ask, err := ctx.bestPrices(r.product)
	if err != nil {
		return nil, err
	}

	sell, err := detect(ctx.History.Values(r.product, history.SeriesVWAPBid))
	if err != nil {
		return nil, err
	}

	buy, err := detect(ctx.History.Values(r.product, history.SeriesVWAPAsk))
	if err != nil {
		return nil, err
	}

	var decisions []types.Decision

	if sell == types.SignalTypeSell {
		decisions = append(decisions, types.SellAll(r.product, bid.Price, fmt.Sprintf("%s sell signal on bid vwap", r.config.Mode)))
	}

	if buy == types.SignalTypeBuy {
		decisions = append(decisions, types.BuyAll(r.product, ask.Price, fmt.Sprintf("%s buy signal on ask vwap", r.config.Mode)))
	}

	return decisions, nil
}
