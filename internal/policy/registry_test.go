package policy

import (
	"testing"

	"github.com/rxtech-lab/argo-policy/internal/config"
	"github.com/rxtech-lab/argo-policy/internal/types"
	"github.com/rxtech-lab/argo-policy/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RegistryTestSuite struct {
	suite.Suite
	registry RuleRegistry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (suite *RegistryTestSuite) SetupTest() {
	suite.registry = NewRuleRegistry()
}

func (suite *RegistryTestSuite) TestRegisterAndGet() {
	suite.Require().NoError(suite.registry.RegisterRule(NewFlat("DIP")))
	suite.Require().NoError(suite.registry.RegisterRule(NewStableQuote("PEARLS", config.StableQuoteConfig{Window: 3})))
	suite.Require().NoError(suite.registry.RegisterRule(NewCounterpartyFollow("PEARLS", config.CounterpartyConfig{Counterparty: "Olivia"})))

	rules, err := suite.registry.GetRules("PEARLS")
	suite.Require().NoError(err)
	suite.Require().Len(rules, 2)
	suite.Equal(types.RuleTypeStableQuote, rules[0].Type())
	suite.Equal(types.RuleTypeCounterpartyFollow, rules[1].Type())

	suite.Equal([]string{"DIP", "PEARLS"}, suite.registry.ListProducts())
}

func (suite *RegistryTestSuite) TestDuplicateType() {
	suite.Require().NoError(suite.registry.RegisterRule(NewFlat("DIP")))

	err := suite.registry.RegisterRule(NewFlat("DIP"))
	suite.True(errors.HasCode(err, errors.ErrCodeRuleAlreadyExists))
}

func (suite *RegistryTestSuite) TestEmptyProduct() {
	err := suite.registry.RegisterRule(NewFlat(""))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *RegistryTestSuite) TestUnknownProduct() {
	_, err := suite.registry.GetRules("BANANAS")
	suite.True(errors.HasCode(err, errors.ErrCodeRuleNotFound))

	err = suite.registry.RemoveRules("BANANAS")
	suite.True(errors.HasCode(err, errors.ErrCodeRuleNotFound))
}

func (suite *RegistryTestSuite) TestRemove() {
	suite.Require().NoError(suite.registry.RegisterRule(NewFlat("DIP")))
	suite.Require().NoError(suite.registry.RemoveRules("DIP"))

	suite.Empty(suite.registry.ListProducts())
}
