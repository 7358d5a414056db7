package emitter

import (
	"math/rand"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-policy/internal/position"
	"github.com/rxtech-lab/argo-policy/internal/types"
	"github.com/rxtech-lab/argo-policy/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type EmitterTestSuite struct {
	suite.Suite
	limits position.Limits
}

func TestEmitterSuite(t *testing.T) {
	suite.Run(t, new(EmitterTestSuite))
}

func (suite *EmitterTestSuite) SetupTest() {
	suite.limits = position.Limits{"PEARLS": 20, "BANANAS": 20}
}

func (suite *EmitterTestSuite) TestPlaceBuyAndSell() {
	e := New(suite.limits, map[string]int{"PEARLS": 3}, nil)

	placed, err := e.PlaceBuy("PEARLS", 98, 100)
	suite.Require().NoError(err)
	suite.True(placed)

	placed, err = e.PlaceSell("PEARLS", 102, 100)
	suite.Require().NoError(err)
	suite.True(placed)

	suite.Equal([]types.Order{
		{Symbol: "PEARLS", Price: 98, Quantity: 17},
		{Symbol: "PEARLS", Price: 102, Quantity: -23},
	}, e.Orders()["PEARLS"])
}

func (suite *EmitterTestSuite) TestSignedSellQuantityIsNormalised() {
	e := New(suite.limits, nil, nil)

	_, err := e.PlaceSell("BANANAS", 4895, -5)
	suite.Require().NoError(err)

	suite.Equal(-5, e.Orders()["BANANAS"][0].Quantity)
}

func (suite *EmitterTestSuite) TestZeroCapacitySuppressed() {
	e := New(suite.limits, map[string]int{"PEARLS": 20}, nil)

	placed, err := e.PlaceBuy("PEARLS", 98, 5)
	suite.Require().NoError(err)
	suite.False(placed)
	suite.Empty(e.Orders()["PEARLS"])

	placed, err = e.PlaceBuy("UNKNOWN", 10, 5)
	suite.Require().NoError(err)
	suite.False(placed)
	suite.Equal(0, e.Orders().Count())
}

func (suite *EmitterTestSuite) TestCapacitySharedAcrossCalls() {
	e := New(suite.limits, map[string]int{"PEARLS": 0}, nil)

	_, err := e.PlaceBuy("PEARLS", 97, 15)
	suite.Require().NoError(err)
	_, err = e.PlaceBuy("PEARLS", 98, 15)
	suite.Require().NoError(err)
	placed, err := e.PlaceBuy("PEARLS", 99, 15)
	suite.Require().NoError(err)
	suite.False(placed)

	orders := e.Orders()["PEARLS"]
	suite.Len(orders, 2)
	suite.Equal(15, orders[0].Quantity)
	suite.Equal(5, orders[1].Quantity)
	suite.Equal(position.Capacity{Buy: 0, Sell: 20}, e.Remaining("PEARLS"))
}

func (suite *EmitterTestSuite) TestApplyDecision() {
	e := New(suite.limits, map[string]int{"BANANAS": -4}, nil)

	placed, err := e.Apply(types.BuyAll("BANANAS", 4893, "fair value"))
	suite.Require().NoError(err)
	suite.True(placed)

	placed, err = e.Apply(types.Decision{
		Product:  "BANANAS",
		Side:     types.SignalTypeSell,
		Price:    4897,
		Quantity: optional.Some(3),
	})
	suite.Require().NoError(err)
	suite.True(placed)

	placed, err = e.Apply(types.Decision{Product: "BANANAS", Side: types.SignalTypeNoAction})
	suite.Require().NoError(err)
	suite.False(placed)

	suite.Equal([]types.Order{
		{Symbol: "BANANAS", Price: 4893, Quantity: 24},
		{Symbol: "BANANAS", Price: 4897, Quantity: -3},
	}, e.Orders()["BANANAS"])
}

func (suite *EmitterTestSuite) TestApplyRejectsUnknownSide() {
	e := New(suite.limits, nil, nil)

	_, err := e.Apply(types.Decision{Product: "PEARLS", Side: "hold", Price: 1})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidOrder))
}

func (suite *EmitterTestSuite) TestNonPositivePriceIsSuppressed() {
	e := New(suite.limits, nil, nil)

	placed, err := e.PlaceBuy("PEARLS", 0, 1)
	suite.NoError(err)
	suite.False(placed)

	placed, err = e.PlaceSell("PEARLS", -1, 5)
	suite.NoError(err)
	suite.False(placed)

	suite.Equal(0, e.Orders().Count())
	// suppressed orders do not consume capacity
	suite.Equal(suite.limits.Capacity("PEARLS", 0), e.Remaining("PEARLS"))
}

func (suite *EmitterTestSuite) TestEmptySymbolIsRejected() {
	e := New(position.Limits{"": 10}, nil, nil)

	_, err := e.PlaceBuy("", 100, 1)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidOrder))
	suite.Equal(0, e.Orders().Count())
}

func (suite *EmitterTestSuite) TestNeverExceedsCapacity() {
	rng := rand.New(rand.NewSource(11))

	for step := 0; step < 300; step++ {
		limit := 1 + rng.Intn(100)
		pos := rng.Intn(2*limit+1) - limit
		limits := position.Limits{"P": limit}
		e := New(limits, map[string]int{"P": pos}, nil)

		for i := 0; i < 5; i++ {
			if rng.Intn(2) == 0 {
				_, err := e.PlaceBuy("P", 100, rng.Intn(3*limit))
				suite.Require().NoError(err)
			} else {
				_, err := e.PlaceSell("P", 100, rng.Intn(3*limit))
				suite.Require().NoError(err)
			}
		}

		bought, sold := 0, 0
		for _, order := range e.Orders()["P"] {
			suite.NotZero(order.Quantity)
			if order.Quantity > 0 {
				bought += order.Quantity
			} else {
				sold -= order.Quantity
			}
		}

		suite.LessOrEqual(bought, position.RemainingBuyCapacity(limit, pos))
		suite.LessOrEqual(sold, position.RemainingSellCapacity(limit, pos))
		suite.LessOrEqual(pos+bought, limit)
		suite.GreaterOrEqual(pos-sold, -limit)
	}
}
