package replay

import (
	"math"
	"math/rand"

	"github.com/rxtech-lab/argo-policy/internal/types"
	"github.com/rxtech-lab/argo-policy/internal/utils"
)

// SnapshotGenerator generates synthetic market snapshots for tests, benchmarks and replays.
type SnapshotGenerator struct {
	rng *rand.Rand
}

// NewSnapshotGenerator creates a new SnapshotGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewSnapshotGenerator(seed int64) *SnapshotGenerator {
	return &SnapshotGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// ProductConfig configures the book of one product.
type ProductConfig struct {
	Symbol string
	// InitialPrice is the starting mid price
	InitialPrice float64
	// Volatility controls mid movement per step (0.001 = 0.1%)
	Volatility float64
	// HalfSpread is the distance in ticks from the mid to the best bid and best ask
	HalfSpread int
	// Depth is the number of price levels on each side
	Depth int
	// MaxLevelQuantity bounds the size of a single level
	MaxLevelQuantity int
}

// ObservationConfig configures a side-channel observation that follows a random walk.
type ObservationConfig struct {
	Key          string
	InitialValue float64
	// StepSize is the standard deviation of one step
	StepSize float64
}

// GeneratorConfig configures how snapshots are generated.
type GeneratorConfig struct {
	Products     []ProductConfig
	Observations []ObservationConfig
	// Count is the number of snapshots to generate
	Count int
	// StartTimestamp is the timestamp of the first snapshot
	StartTimestamp int64
	// Interval is the timestamp increment between snapshots
	Interval int64
	// Counterparties are the participant names used for market trades
	Counterparties []string
	// TradeProbability is the chance that a product prints a market trade on a step
	TradeProbability float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Products: []ProductConfig{
			{Symbol: "PEARLS", InitialPrice: 10000, Volatility: 0.0002, HalfSpread: 2, Depth: 3, MaxLevelQuantity: 30},
			{Symbol: "BANANAS", InitialPrice: 5000, Volatility: 0.001, HalfSpread: 3, Depth: 3, MaxLevelQuantity: 30},
		},
		Observations: []ObservationConfig{
			{Key: "DOLPHIN_SIGHTINGS", InitialValue: 3000, StepSize: 5},
		},
		Count:            1000,
		StartTimestamp:   0,
		Interval:         100,
		Counterparties:   []string{"Olivia", "Caesar", "Charlie", "Paris"},
		TradeProbability: 0.3,
	}
}

// DefaultProductConfig returns a product configuration with default book shape for symbol.
func DefaultProductConfig(symbol string, initialPrice float64) ProductConfig {
	return ProductConfig{
		Symbol:           symbol,
		InitialPrice:     initialPrice,
		Volatility:       0.001,
		HalfSpread:       2,
		Depth:            3,
		MaxLevelQuantity: 30,
	}
}

// Generate creates a slice of snapshots based on the configuration.
// Mid prices follow a geometric Brownian motion; books are built symmetrically around the rounded mid.
func (g *SnapshotGenerator) Generate(config GeneratorConfig) []types.Snapshot {
	snapshots := make([]types.Snapshot, config.Count)

	mids := make([]float64, len(config.Products))
	for i, product := range config.Products {
		mids[i] = product.InitialPrice
	}

	observations := make([]float64, len(config.Observations))
	for i, observation := range config.Observations {
		observations[i] = observation.InitialValue
	}

	timestamp := config.StartTimestamp

	for step := 0; step < config.Count; step++ {
		snapshot := types.Snapshot{
			Timestamp:    timestamp,
			OrderBooks:   make(map[string]types.OrderBook, len(config.Products)),
			Positions:    map[string]int{},
			MarketTrades: map[string][]types.Trade{},
			OwnTrades:    map[string][]types.Trade{},
			Observations: make(map[string]float64, len(config.Observations)),
		}

		for i, product := range config.Products {
			if step > 0 {
				next := mids[i] * (1 + product.Volatility*g.normal())
				if next > 1 {
					mids[i] = next
				}
			}

			book := g.book(product, mids[i])
			snapshot.OrderBooks[product.Symbol] = book

			if trade, ok := g.trade(config, product.Symbol, book, timestamp); ok {
				snapshot.MarketTrades[product.Symbol] = []types.Trade{trade}
			}
		}

		for i, observation := range config.Observations {
			if step > 0 {
				observations[i] += observation.StepSize * g.normal()
			}

			snapshot.Observations[observation.Key] = utils.RoundToDecimalPrecision(observations[i], 2)
		}

		snapshots[step] = snapshot
		timestamp += config.Interval
	}

	return snapshots
}

func (g *SnapshotGenerator) book(product ProductConfig, mid float64) types.OrderBook {
	center := int(math.Round(mid))
	halfSpread := max(product.HalfSpread, 1)
	depth := max(product.Depth, 1)
	maxQuantity := max(product.MaxLevelQuantity, 1)

	book := types.OrderBook{
		BuyOrders:  make(map[int]int, depth),
		SellOrders: make(map[int]int, depth),
	}

	for level := 0; level < depth; level++ {
		bid := center - halfSpread - level
		ask := center + halfSpread + level

		if bid > 0 {
			book.BuyOrders[bid] = 1 + g.rng.Intn(maxQuantity)
		}

		book.SellOrders[ask] = -(1 + g.rng.Intn(maxQuantity))
	}

	return book
}

func (g *SnapshotGenerator) trade(config GeneratorConfig, symbol string, book types.OrderBook, timestamp int64) (types.Trade, bool) {
	if len(config.Counterparties) < 2 || g.rng.Float64() >= config.TradeProbability {
		return types.Trade{}, false
	}

	buyer := config.Counterparties[g.rng.Intn(len(config.Counterparties))]
	seller := buyer

	for seller == buyer {
		seller = config.Counterparties[g.rng.Intn(len(config.Counterparties))]
	}

	// the aggressor takes the best opposite level
	var price int
	if g.rng.Intn(2) == 0 {
		price = bestPrice(book.SellOrders, false)
	} else {
		price = bestPrice(book.BuyOrders, true)
	}

	if price <= 0 {
		return types.Trade{}, false
	}

	return types.Trade{
		Symbol:    symbol,
		Price:     price,
		Quantity:  1 + g.rng.Intn(5),
		Buyer:     buyer,
		Seller:    seller,
		Timestamp: timestamp,
	}, true
}

// normal draws a standard normal value with the Box-Muller transform.
func (g *SnapshotGenerator) normal() float64 {
	u1 := g.rng.Float64()
	for u1 == 0 {
		u1 = g.rng.Float64()
	}

	u2 := g.rng.Float64()

	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// GenerateSnapshots is a convenience function to generate count snapshots with default settings.
func GenerateSnapshots(count int) []types.Snapshot {
	gen := NewSnapshotGenerator(42) // Fixed seed for reproducibility
	config := DefaultGeneratorConfig()
	config.Count = count

	return gen.Generate(config)
}

func bestPrice(levels map[int]int, highest bool) int {
	best := 0
	for price := range levels {
		if best == 0 || (highest && price > best) || (!highest && price < best) {
			best = price
		}
	}

	return best
}
