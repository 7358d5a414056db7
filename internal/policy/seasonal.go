package policy

import (
	"fmt"

	"github.com/rxtech-lab/argo-policy/internal/config"
	"github.com/rxtech-lab/argo-policy/internal/types"
)

// Seasonal trades only inside configured timestamp windows: it buys at the best ask
// inside a buy window and sells at the best bid inside a sell window. Outside every window it stays flat.
type Seasonal struct {
	product string
	windows []config.SeasonalWindow
}

func NewSeasonal(product string, cfg config.SeasonalConfig) *Seasonal {
	return &Seasonal{
		product: product,
		windows: cfg.Windows,
	}
}

func (r *Seasonal) Type() types.RuleType {
	return types.RuleTypeSeasonal
}

func (r *Seasonal) Product() string {
	return r.product
}

func (r *Seasonal) Dependencies() []string {
	return nil
}

func (r *Seasonal) Decide(ctx StepContext) ([]types.Decision, error) {
	var active []config.SeasonalWindow

	for _, window := range r.windows {
		if ctx.Snapshot.Timestamp >= window.Start && ctx.Snapshot.Timestamp <= window.End {
			active = append(active, window)
		}
	}

	if len(active) == 0 {
		return nil, nil
	}

	bid, ask, err := ctx.bestPrices(r.product)
	if err != nil {
		return nil, err
	}

	decisions := make([]types.Decision, 0, len(active))

	for _, window := range active {
		reason := fmt.Sprintf("seasonal %s window [%d, %d]", window.Side, window.Start, window.End)

		switch window.Side {
		case types.SignalTypeBuy:
			decisions = append(decisions, types.BuyAll(r.product, ask.Price, reason))
		case types.SignalTypeSell:
			decisions = append(decisions, types.SellAll(r.product, bid.Price, reason))
		}
	}

	return decisions, nil
}
