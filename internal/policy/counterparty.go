package policy

import (
	"fmt"

	"github.com/rxtech-lab/argo-policy/internal/config"
	"github.com/rxtech-lab/argo-policy/internal/indicator"
	"github.com/rxtech-lab/argo-policy/internal/types"
)

// CounterpartyFollow copies a named counterparty. For every market trade in which it
// bought, the rule buys through the whole ask side; when it sold, the rule sells through the whole bid side.
type CounterpartyFollow struct {
	product string
	config  config.CounterpartyConfig
}

func NewCounterpartyFollow(product string, cfg config.CounterpartyConfig) *CounterpartyFollow {
	return &CounterpartyFollow{
		product: product,
		config:  cfg,
	}
}

func (r *CounterpartyFollow) Type() types.RuleType {
	return types.RuleTypeCounterpartyFollow
}

func (r *CounterpartyFollow) Product() string {
	return r.product
}

func (r *CounterpartyFollow) Dependencies() []string {
	return nil
}

func (r *CounterpartyFollow) Decide(ctx StepContext) ([]types.Decision, error) {
	trades := ctx.Snapshot.MarketTrades[r.product]
	if len(trades) == 0 {
		return nil, nil
	}

	book, err := ctx.Book(r.product)
	if err != nil {
		return nil, err
	}

	var decisions []types.Decision

	for _, trade := range trades {
		if trade.Buyer == r.config.Counterparty {
			worst, err := indicator.WorstAsk(book)
			if err != nil {
				return nil, err
			}

			reason := fmt.Sprintf("%s bought %d at %d", r.config.Counterparty, trade.Quantity, trade.Price)
			decisions = append(decisions, types.BuyAll(r.product, worst.Price+r.config.Offset, reason))
		}

		if trade.Seller == r.config.Counterparty {
			worst, err := indicator.WorstBid(book)
			if err != nil {
				return nil, err
			}

			reason := fmt.Sprintf("%s sold %d at %d", r.config.Counterparty, trade.Quantity, trade.Price)
			decisions = append(decisions, types.SellAll(r.product, worst.Price-r.config.Offset, reason))
		}
	}

	return decisions, nil
}
