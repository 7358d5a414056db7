// Package position computes how much more a product may be bought or sold
// under a static absolute position limit. It holds no state of its own.
package position

// RemainingBuyCapacity is limit - position. It is negative only when the
// position already exceeds the limit.
func RemainingBuyCapacity(limit, position int) int {
	return limit - position
}

// RemainingSellCapacity is limit + position.
func RemainingSellCapacity(limit, position int) int {
	return limit + position
}

// Capacity is the clamped, non-negative room left on each side.
type Capacity struct {
	Buy  int
	Sell int
}

// Remaining returns the capacity left on the side given by buy.
func (c Capacity) Remaining(buy bool) int {
	if buy {
		return c.Buy
	}

	return c.Sell
}

// Limits maps a product symbol to its maximum absolute inventory.
// Products missing from the table have a limit of zero.
type Limits map[string]int

// Limit returns the limit of product, zero when unknown.
func (l Limits) Limit(product string) int {
	return l[product]
}

// Capacity computes the clamped buy and sell capacity of product at position.
func (l Limits) Capacity(product string, position int) Capacity {
	limit := l.Limit(product)

	return Capacity{
		Buy:  max(0, RemainingBuyCapacity(limit, position)),
		Sell: max(0, RemainingSellCapacity(limit, position)),
	}
}

// Len returns the number of products with a configured limit.
func (l Limits) Len() int {
	return len(l)
}
