package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
)

type MarketTestSuite struct {
	suite.Suite
}

func TestMarketSuite(t *testing.T) {
	suite.Run(t, new(MarketTestSuite))
}

func (suite *MarketTestSuite) TestSnapshotAccessors() {
	snapshot := Snapshot{
		Timestamp: 100,
		OrderBooks: map[string]OrderBook{
			"PEARLS": {BuyOrders: map[int]int{9998: 5}, SellOrders: map[int]int{10002: -4}},
		},
		Positions:    map[string]int{"PEARLS": -3},
		Observations: map[string]float64{"DOLPHIN_SIGHTINGS": 3051},
	}

	book, ok := snapshot.Book("PEARLS")
	suite.True(ok)
	suite.True(book.HasBids())
	suite.True(book.HasAsks())

	_, ok = snapshot.Book("BANANAS")
	suite.False(ok)

	suite.Equal(-3, snapshot.Position("PEARLS"))
	suite.Equal(0, snapshot.Position("BANANAS"))

	value, ok := snapshot.Observation("DOLPHIN_SIGHTINGS")
	suite.True(ok)
	suite.Equal(3051.0, value)

	_, ok = snapshot.Observation("MISSING")
	suite.False(ok)
}

func (suite *MarketTestSuite) TestEmptyBookSides() {
	book := OrderBook{BuyOrders: map[int]int{}, SellOrders: nil}
	suite.False(book.HasBids())
	suite.False(book.HasAsks())
}

func (suite *MarketTestSuite) TestSnapshotJSON() {
	raw := `{
		"timestamp": 200,
		"order_books": {"BANANAS": {"buy_orders": {"4890": 10}, "sell_orders": {"4895": -7}}},
		"positions": {"BANANAS": 4},
		"market_trades": {"BANANAS": [{"symbol": "BANANAS", "price": 4893, "quantity": 2, "buyer": "Olivia"}]},
		"observations": {}
	}`

	var snapshot Snapshot
	suite.Require().NoError(json.Unmarshal([]byte(raw), &snapshot))

	suite.Equal(int64(200), snapshot.Timestamp)
	suite.Equal(10, snapshot.OrderBooks["BANANAS"].BuyOrders[4890])
	suite.Equal(-7, snapshot.OrderBooks["BANANAS"].SellOrders[4895])
	suite.Equal("Olivia", snapshot.MarketTrades["BANANAS"][0].Buyer)
	suite.Equal(4, snapshot.Position("BANANAS"))
}
