package indicator

import (
	"testing"

	"github.com/rxtech-lab/argo-policy/internal/types"
	"github.com/rxtech-lab/argo-policy/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type CrossoverTestSuite struct {
	suite.Suite
}

func TestCrossoverSuite(t *testing.T) {
	suite.Run(t, new(CrossoverTestSuite))
}

func (suite *CrossoverTestSuite) TestGoldenCross() {
	signal, err := Crossover([]float64{9, 11}, []float64{10, 10})
	suite.Require().NoError(err)
	suite.Equal(types.SignalTypeBuy, signal)
}

func (suite *CrossoverTestSuite) TestDeathCross() {
	signal, err := Crossover([]float64{11, 9}, []float64{10, 10})
	suite.Require().NoError(err)
	suite.Equal(types.SignalTypeSell, signal)
}

func (suite *CrossoverTestSuite) TestNoCross() {
	signal, err := Crossover([]float64{11, 12}, []float64{10, 10})
	suite.Require().NoError(err)
	suite.Equal(types.SignalTypeNoAction, signal)
}

func (suite *CrossoverTestSuite) TestTouchFromBelowThenAbove() {
	signal, err := Crossover([]float64{10, 10.5}, []float64{10, 10})
	suite.Require().NoError(err)
	suite.Equal(types.SignalTypeBuy, signal)
}

func (suite *CrossoverTestSuite) TestCrossThroughEqualityFiresOnce() {
	fast := []float64{9, 10, 11}
	slow := []float64{10, 10, 10}

	// below then touching: no cross yet
	signal, err := Crossover(fast[:2], slow[:2])
	suite.Require().NoError(err)
	suite.Equal(types.SignalTypeNoAction, signal)

	// touching then above: buy
	signal, err = Crossover(fast[1:], slow[1:])
	suite.Require().NoError(err)
	suite.Equal(types.SignalTypeBuy, signal)

	// touching then below: sell
	signal, err = Crossover([]float64{10, 9}, []float64{10, 10})
	suite.Require().NoError(err)
	suite.Equal(types.SignalTypeSell, signal)
}

func (suite *CrossoverTestSuite) TestInsufficientPoints() {
	_, err := Crossover([]float64{1}, []float64{1, 2})
	suite.True(errors.IsMissingData(err))
}

func (suite *CrossoverTestSuite) TestMovingAverageCrossover() {
	// fast(2) was below slow(4) and jumps above on the last value
	series := []float64{10, 10, 10, 10, 9, 13}
	signal, err := MovingAverageCrossover(series, 2, 4)
	suite.Require().NoError(err)
	suite.Equal(types.SignalTypeBuy, signal)

	falling := []float64{10, 10, 10, 10, 11, 7}
	signal, err = MovingAverageCrossover(falling, 2, 4)
	suite.Require().NoError(err)
	suite.Equal(types.SignalTypeSell, signal)
}

func (suite *CrossoverTestSuite) TestMovingAverageCrossoverValidation() {
	_, err := MovingAverageCrossover([]float64{1, 2, 3}, 3, 2)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidWindow))

	_, err = MovingAverageCrossover([]float64{1, 2, 3}, 2, 4)
	suite.True(errors.IsMissingData(err))
}
