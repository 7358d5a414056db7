package types

// OrderBook holds the resting orders of one product keyed by price.
// BuyOrders carry positive quantities; SellOrders carry negative quantities whose magnitude is the size.
type OrderBook struct {
	BuyOrders  map[int]int `json:"buy_orders" yaml:"buy_orders"`
	SellOrders map[int]int `json:"sell_orders" yaml:"sell_orders"`
}

// Level is a single price level of one book side. Quantity is always a magnitude.
type Level struct {
	Price    int `json:"price" yaml:"price"`
	Quantity int `json:"quantity" yaml:"quantity"`
}

// HasBids reports whether the buy side has resting orders.
func (b OrderBook) HasBids() bool {
	return len(b.BuyOrders) > 0
}

// HasAsks reports whether the sell side has resting orders.
func (b OrderBook) HasAsks() bool {
	return len(b.SellOrders) > 0
}

// Trade is an executed trade. Buyer and Seller are blank when the venue does not disclose them.
type Trade struct {
	Symbol    string `json:"symbol" yaml:"symbol"`
	Price     int    `json:"price" yaml:"price"`
	Quantity  int    `json:"quantity" yaml:"quantity"`
	Buyer     string `json:"buyer,omitempty" yaml:"buyer,omitempty"`
	Seller    string `json:"seller,omitempty" yaml:"seller,omitempty"`
	Timestamp int64  `json:"timestamp" yaml:"timestamp"`
}

// Snapshot is the read-only market state handed to the policy for one time step.
type Snapshot struct {
	// Timestamp increases monotonically across the run.
	Timestamp int64 `json:"timestamp" yaml:"timestamp"`
	// OrderBooks maps a product symbol to its order book.
	OrderBooks map[string]OrderBook `json:"order_books" yaml:"order_books"`
	// Positions maps a product symbol to the signed inventory; absent means flat.
	Positions map[string]int `json:"positions" yaml:"positions"`
	// MarketTrades are trades between other participants since the previous step.
	MarketTrades map[string][]Trade `json:"market_trades" yaml:"market_trades"`
	// OwnTrades are this participant's fills since the previous step.
	OwnTrades map[string][]Trade `json:"own_trades" yaml:"own_trades"`
	// Observations are side-channel values; a key may be absent on some steps.
	Observations map[string]float64 `json:"observations" yaml:"observations"`
}

// Book returns the order book of product and whether the snapshot carries one.
func (s Snapshot) Book(product string) (OrderBook, bool) {
	book, ok := s.OrderBooks[product]

	return book, ok
}

// Position returns the signed position of product, zero when absent.
func (s Snapshot) Position(product string) int {
	return s.Positions[product]
}

// Observation returns the observation value for key and whether it is present on this step.
func (s Snapshot) Observation(key string) (float64, bool) {
	value, ok := s.Observations[key]

	return value, ok
}
