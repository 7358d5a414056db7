package policy

import (
	"fmt"

	"github.com/rxtech-lab/argo-policy/internal/config"
	"github.com/rxtech-lab/argo-policy/internal/history"
	"github.com/rxtech-lab/argo-policy/internal/types"
	"github.com/rxtech-lab/argo-policy/pkg/errors"
)

// PairsArbitrage trades a product believed to move with a driver product at a fixed price ratio.
// When the ratio is off target and the driver just moved in the confirming direction, it crosses the spread.
type PairsArbitrage struct {
	product string
	config  config.PairsConfig
}

func NewPairsArbitrage(product string, cfg config.PairsConfig) *PairsArbitrage {
	return &PairsArbitrage{
		product: product,
		config:  cfg,
	}
}

func (r *PairsArbitrage) Type() types.RuleType {
	return types.RuleTypePairsArbitrage
}

func (r *PairsArbitrage) Product() string {
	return r.product
}

func (r *PairsArbitrage) Dependencies() []string {
	return []string{r.config.Driver}
}

func (r *PairsArbitrage) Decide(ctx StepContext) ([]types.Decision, error) {
	bid, ask, err := ctx.bestPrices(r.product)
	if err != nil {
		return nil, err
	}

	mid, err := ctx.Mid(r.product)
	if err != nil {
		return nil, err
	}

	driverMid, err := ctx.Mid(r.config.Driver)
	if err != nil {
		return nil, err
	}

	if driverMid == 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidReferencePrice, "driver %s has a zero mid price", r.config.Driver)
	}

	previous, last, err := lastMove(ctx.History, r.config.Driver, history.SeriesMid)
	if err != nil {
		return nil, err
	}

	ratio := mid / driverMid
	reason := fmt.Sprintf("ratio %.4f against target %.4f", ratio, r.config.TargetRatio)

	switch {
	case ratio > r.config.TargetRatio+r.config.Tolerance && last > previous:
		return []types.Decision{types.SellAll(r.product, bid.Price, reason)}, nil
	case ratio < r.config.TargetRatio-r.config.Tolerance && last < previous:
		return []types.Decision{types.BuyAll(r.product, ask.Price, reason)}, nil
	default:
		return nil, nil
	}
}
