// Package emitter turns buy and sell intents into signed, capacity-capped orders
// for a single step.
package emitter

import (
	"github.com/rxtech-lab/argo-policy/internal/logger"
	"github.com/rxtech-lab/argo-policy/internal/position"
	"github.com/rxtech-lab/argo-policy/internal/types"
	"github.com/rxtech-lab/argo-policy/internal/utils"
	"github.com/rxtech-lab/argo-policy/pkg/errors"
	"go.uber.org/zap"
)

// Emitter collects the orders of one step. Create a new one per step.
//
// Every order is capped at the product's remaining capacity minus what was
// already emitted on the same side during this step, so several rules quoting
// the same product can never jointly exceed the position limit.
type Emitter struct {
	limits    position.Limits
	positions map[string]int
	used      map[string]position.Capacity
	orders    types.Orders
	logger    *logger.Logger
}

// New creates an emitter for a step with the given positions.
func New(limits position.Limits, positions map[string]int, log *logger.Logger) *Emitter {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Emitter{
		limits:    limits,
		positions: positions,
		used:      make(map[string]position.Capacity),
		orders:    make(types.Orders),
		logger:    log,
	}
}

// Remaining returns the capacity still available to product in this step.
func (e *Emitter) Remaining(product string) position.Capacity {
	capacity := e.limits.Capacity(product, e.positions[product])
	used := e.used[product]

	return position.Capacity{
		Buy:  max(0, capacity.Buy-used.Buy),
		Sell: max(0, capacity.Sell-used.Sell),
	}
}

// PlaceBuy appends a buy order of at most quantity at price.
// It reports whether an order was emitted; zero-sized results and non-positive prices are suppressed.
func (e *Emitter) PlaceBuy(product string, price int, quantity int) (bool, error) {
	return e.place(product, types.SignalTypeBuy, price, quantity)
}

// PlaceSell appends a sell order of at most quantity at price.
// quantity may be given signed or unsigned.
func (e *Emitter) PlaceSell(product string, price int, quantity int) (bool, error) {
	return e.place(product, types.SignalTypeSell, price, quantity)
}

// Apply emits a rule decision. A decision without quantity takes the full remaining capacity.
func (e *Emitter) Apply(decision types.Decision) (bool, error) {
	remaining := e.Remaining(decision.Product)

	switch decision.Side {
	case types.SignalTypeBuy:
		return e.PlaceBuy(decision.Product, decision.Price, decision.Quantity.TakeOr(remaining.Buy))
	case types.SignalTypeSell:
		return e.PlaceSell(decision.Product, decision.Price, decision.Quantity.TakeOr(remaining.Sell))
	case types.SignalTypeNoAction:
		return false, nil
	default:
		return false, errors.Newf(errors.ErrCodeInvalidOrder, "unknown decision side %q for %s", decision.Side, decision.Product)
	}
}

// Orders returns the orders emitted so far, keyed by product.
func (e *Emitter) Orders() types.Orders {
	return e.orders
}

func (e *Emitter) place(product string, side types.SignalType, price int, quantity int) (bool, error) {
	remaining := e.Remaining(product)
	buy := side == types.SignalTypeBuy

	size := utils.ClampQuantity(quantity, remaining.Remaining(buy))
	if size == 0 {
		e.logger.Debug("Order suppressed",
			zap.String("product", product),
			zap.String("side", string(side)),
			zap.Int("requested", quantity),
			zap.Int("capacity", remaining.Remaining(buy)),
		)

		return false, nil
	}

	if price <= 0 {
		e.logger.Debug("Order suppressed, non-positive price",
			zap.String("product", product),
			zap.String("side", string(side)),
			zap.Int("price", price),
		)

		return false, nil
	}

	order := types.Order{Symbol: product, Price: price, Quantity: size}
	if !buy {
		order.Quantity = -size
	}

	if err := order.Validate(); err != nil {
		return false, err
	}

	used := e.used[product]
	if buy {
		used.Buy += size
	} else {
		used.Sell += size
	}

	e.used[product] = used
	e.orders[product] = append(e.orders[product], order)

	return true, nil
}
