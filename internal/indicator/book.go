package indicator

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-policy/internal/types"
	"github.com/rxtech-lab/argo-policy/pkg/errors"
)

// BestBid returns the highest bid price and its quantity.
func BestBid(book types.OrderBook) (types.Level, error) {
	if !book.HasBids() {
		return types.Level{}, errors.New(errors.ErrCodeEmptyBook, "no resting bids")
	}

	best := math.MinInt
	for price := range book.BuyOrders {
		if price > best {
			best = price
		}
	}

	return types.Level{Price: best, Quantity: abs(book.BuyOrders[best])}, nil
}

// BestAsk returns the lowest ask price and its quantity as a magnitude.
func BestAsk(book types.OrderBook) (types.Level, error) {
	if !book.HasAsks() {
		return types.Level{}, errors.New(errors.ErrCodeEmptyBook, "no resting asks")
	}

	best := math.MaxInt
	for price := range book.SellOrders {
		if price < best {
			best = price
		}
	}

	return types.Level{Price: best, Quantity: abs(book.SellOrders[best])}, nil
}

// WorstBid returns the lowest bid price and its quantity.
func WorstBid(book types.OrderBook) (types.Level, error) {
	if !book.HasBids() {
		return types.Level{}, errors.New(errors.ErrCodeEmptyBook, "no resting bids")
	}

	worst := math.MaxInt
	for price := range book.BuyOrders {
		if price < worst {
			worst = price
		}
	}

	return types.Level{Price: worst, Quantity: abs(book.BuyOrders[worst])}, nil
}

// WorstAsk returns the highest ask price and its quantity as a magnitude.
func WorstAsk(book types.OrderBook) (types.Level, error) {
	if !book.HasAsks() {
		return types.Level{}, errors.New(errors.ErrCodeEmptyBook, "no resting asks")
	}

	worst := math.MinInt
	for price := range book.SellOrders {
		if price > worst {
			worst = price
		}
	}

	return types.Level{Price: worst, Quantity: abs(book.SellOrders[worst])}, nil
}

// PeekBestBid is BestBid for callers that prefer a sentinel over an error.
func PeekBestBid(book types.OrderBook) optional.Option[types.Level] {
	level, err := BestBid(book)
	if err != nil {
		return optional.None[types.Level]()
	}

	return optional.Some(level)
}

// PeekBestAsk is BestAsk for callers that prefer a sentinel over an error.
func PeekBestAsk(book types.OrderBook) optional.Option[types.Level] {
	level, err := BestAsk(book)
	if err != nil {
		return optional.None[types.Level]()
	}

	return optional.Some(level)
}

// MidPrice returns the average of the best bid and the best ask.
func MidPrice(book types.OrderBook) (float64, error) {
	bid, err := BestBid(book)
	if err != nil {
		return 0, err
	}

	ask, err := BestAsk(book)
	if err != nil {
		return 0, err
	}

	return float64(bid.Price+ask.Price) / 2, nil
}

// Spread returns best ask minus best bid.
func Spread(book types.OrderBook) (int, error) {
	bid, err := BestBid(book)
	if err != nil {
		return 0, err
	}

	ask, err := BestAsk(book)
	if err != nil {
		return 0, err
	}

	return ask.Price - bid.Price, nil
}

// VWAP returns the volume-weighted average price of one book side.
// Quantities are taken as magnitudes so it works for both sides.
// A side with no volume yields 0 instead of dividing by zero.
func VWAP(side map[int]int) float64 {
	notional := 0
	volume := 0

	for price, quantity := range side {
		size := abs(quantity)
		notional += price * size
		volume += size
	}

	if volume == 0 {
		return 0
	}

	return float64(notional) / float64(volume)
}

// VWAPBid is the VWAP of the buy side.
func VWAPBid(book types.OrderBook) float64 {
	return VWAP(book.BuyOrders)
}

// VWAPAsk is the VWAP of the sell side.
func VWAPAsk(book types.OrderBook) float64 {
	return VWAP(book.SellOrders)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
