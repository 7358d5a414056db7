package types

import (
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-policy/pkg/errors"
)

// Order is a limit order handed back to the simulator.
// A positive Quantity is a buy, a negative Quantity is a sell.
type Order struct {
	Symbol   string `json:"symbol" yaml:"symbol" csv:"symbol" validate:"required"`
	Price    int    `json:"price" yaml:"price" csv:"price" validate:"gt=0"`
	Quantity int    `json:"quantity" yaml:"quantity" csv:"quantity" validate:"ne=0"`
}

// Side returns the side implied by the sign of the quantity.
func (o Order) Side() SignalType {
	if o.Quantity < 0 {
		return SignalTypeSell
	}

	return SignalTypeBuy
}

// Magnitude returns the unsigned order size.
func (o Order) Magnitude() int {
	if o.Quantity < 0 {
		return -o.Quantity
	}

	return o.Quantity
}

// Validate validates the Order struct.
func (o *Order) Validate() error {
	validate := validator.New()
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrder, "invalid order", err)
	}

	return nil
}

// Orders is the per-step result: product symbol to the ordered list of orders.
// A product absent from the map takes no action this step.
type Orders map[string][]Order

// Products returns the products that carry at least one order, sorted.
func (o Orders) Products() []string {
	products := make([]string, 0, len(o))

	for product, orders := range o {
		if len(orders) > 0 {
			products = append(products, product)
		}
	}

	sort.Strings(products)

	return products
}

// Count returns the total number of orders across all products.
func (o Orders) Count() int {
	count := 0
	for _, orders := range o {
		count += len(orders)
	}

	return count
}

// Decision is what a rule wants to do with one product for one step.
// Rules return decisions as plain values; the emitter turns them into capped orders.
type Decision struct {
	Product string
	Side    SignalType
	Price   int
	// Quantity is the requested size. None asks for the full remaining capacity on that side.
	Quantity optional.Option[int]
	Reason   string
}

// BuyAll is a buy decision for the full remaining buy capacity.
func BuyAll(product string, price int, reason string) Decision {
	return Decision{
		Product:  product,
		Side:     SignalTypeBuy,
		Price:    price,
		Quantity: optional.None[int](),
		Reason:   reason,
	}
}

// SellAll is a sell decision for the full remaining sell capacity.
func SellAll(product string, price int, reason string) Decision {
	return Decision{
		Product:  product,
		Side:     SignalTypeSell,
		Price:    price,
		Quantity: optional.None[int](),
		Reason:   reason,
	}
}
