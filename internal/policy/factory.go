package policy

import (
	"github.com/rxtech-lab/argo-policy/internal/config"
	"github.com/rxtech-lab/argo-policy/internal/types"
	"github.com/rxtech-lab/argo-policy/pkg/errors"
)

// NewRule builds the rule variant described by cfg.
func NewRule(cfg config.RuleConfig) (Rule, error) {
	switch cfg.Type {
	case types.RuleTypeStableQuote:
		if cfg.StableQuote == nil {
			return nil, missingSection(cfg)
		}

		return NewStableQuote(cfg.Product, *cfg.StableQuote), nil
	case types.RuleTypeTrendFollow:
		if cfg.TrendFollow == nil {
			return nil, missingSection(cfg)
		}

		return NewTrendFollow(cfg.Product, *cfg.TrendFollow), nil
	case types.RuleTypePairsArbitrage:
		if cfg.Pairs == nil {
			return nil, missingSection(cfg)
		}

		return NewPairsArbitrage(cfg.Product, *cfg.Pairs), nil
	case types.RuleTypeSeasonal:
		if cfg.Seasonal == nil {
			return nil, missingSection(cfg)
		}

		return NewSeasonal(cfg.Product, *cfg.Seasonal), nil
	case types.RuleTypeCorrelatedObservation:
		if cfg.Correlated == nil {
			return nil, missingSection(cfg)
		}

		return NewCorrelatedObservation(cfg.Product, *cfg.Correlated), nil
	case types.RuleTypeBasketArbitrage:
		if cfg.Basket == nil {
			return nil, missingSection(cfg)
		}

		return NewBasketArbitrage(cfg.Product, *cfg.Basket), nil
	case types.RuleTypeCounterpartyFollow:
		if cfg.Counterparty == nil {
			return nil, missingSection(cfg)
		}

		return NewCounterpartyFollow(cfg.Product, *cfg.Counterparty), nil
	case types.RuleTypeFlat:
		return NewFlat(cfg.Product), nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedRule, "unsupported rule type %q for %s", cfg.Type, cfg.Product)
	}
}

// NewRegistryFromConfig builds a registry holding every rule of cfg in file order.
func NewRegistryFromConfig(cfg *config.PolicyConfig) (RuleRegistry, error) {
	registry := NewRuleRegistry()

	for _, ruleConfig := range cfg.Rules {
		rule, err := NewRule(ruleConfig)
		if err != nil {
			return nil, err
		}

		if err := registry.RegisterRule(rule); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

func missingSection(cfg config.RuleConfig) error {
	return errors.Newf(errors.ErrCodeMissingParameter, "%s rule for %s has no %s section", cfg.Type, cfg.Product, cfg.Type)
}
