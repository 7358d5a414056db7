package policy

import (
	"fmt"
	"sort"

	"github.com/rxtech-lab/argo-policy/internal/config"
	"github.com/rxtech-lab/argo-policy/internal/types"
	"github.com/shopspring/decimal"
)

// BasketArbitrage prices a synthetic basket as a premium plus the weighted sum of its
// component mid prices and trades the basket against that value.
type BasketArbitrage struct {
	product    string
	components []string
	weights    map[string]decimal.Decimal
	premium    decimal.Decimal
	threshold  decimal.Decimal
}

func NewBasketArbitrage(product string, cfg config.BasketConfig) *BasketArbitrage {
	components := make([]string, 0, len(cfg.Components))
	weights := make(map[string]decimal.Decimal, len(cfg.Components))

	for component, weight := range cfg.Components {
		components = append(components, component)
		weights[component] = decimal.NewFromFloat(weight)
	}

	sort.Strings(components)

	return &BasketArbitrage{
		product:    product,
		components: components,
		weights:    weights,
		premium:    decimal.NewFromFloat(cfg.Premium),
		threshold:  decimal.NewFromFloat(cfg.Threshold),
	}
}

func (r *BasketArbitrage) Type() types.RuleType {
	return types.RuleTypeBasketArbitrage
}

func (r *BasketArbitrage) Product() string {
	return r.product
}

func (r *BasketArbitrage) Dependencies() []string {
	return r.components
}

// Value returns the basket fair value from the current component books.
func (r *BasketArbitrage) Value(ctx StepContext) (decimal.Decimal, error) {
	value := r.premium

	for _, component := range r.components {
		mid, err := ctx.Mid(component)
		if err != nil {
			return decimal.Zero, err
		}

		value = value.Add(r.weights[component].Mul(decimal.NewFromFloat(mid)))
	}

	return value, nil
}

func (r *BasketArbitrage) Decide(ctx StepContext) ([]types.Decision, error) {
	bid, ask, err := ctx.bestPrices(r.product)
	if err != nil {
		return nil, err
	}

	mid, err := ctx.Mid(r.product)
	if err != nil {
		return nil, err
	}

	value, err := r.Value(ctx)
	if err != nil {
		return nil, err
	}

	difference := value.Sub(decimal.NewFromFloat(mid))
	reason := fmt.Sprintf("basket value %s, mid %.1f", value.StringFixed(1), mid)

	switch {
	case difference.GreaterThan(r.threshold):
		return []types.Decision{types.BuyAll(r.product, ask.Price, reason)}, nil
	case difference.LessThan(r.threshold.Neg()):
		return []types.Decision{types.SellAll(r.product, bid.Price, reason)}, nil
	default:
		return nil, nil
	}
}
