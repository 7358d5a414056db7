package policy

import (
	"sort"

	"github.com/rxtech-lab/argo-policy/pkg/errors"
)

// RuleRegistry maps a product to the ordered list of rules that trade it.
type RuleRegistry interface {
	RegisterRule(rule Rule) error
	GetRules(product string) ([]Rule, error)
	ListProducts() []string
	RemoveRules(product string) error
}

// RuleRegistryV1 is a map-backed RuleRegistry. It is not safe for concurrent use.
type RuleRegistryV1 struct {
	rules map[string][]Rule
}

// NewRuleRegistry creates an empty registry.
func NewRuleRegistry() RuleRegistry {
	return &RuleRegistryV1{
		rules: make(map[string][]Rule),
	}
}

// RegisterRule appends rule to its product's list.
// A product may carry several rules, but only one of each type.
func (r *RuleRegistryV1) RegisterRule(rule Rule) error {
	product := rule.Product()
	if product == "" {
		return errors.New(errors.ErrCodeInvalidParameter, "rule has no product")
	}

	for _, existing := range r.rules[product] {
		if existing.Type() == rule.Type() {
			return errors.Newf(errors.ErrCodeRuleAlreadyExists, "%s rule already registered for %s", rule.Type(), product)
		}
	}

	r.rules[product] = append(r.rules[product], rule)

	return nil
}

// GetRules returns the rules of product in registration order.
func (r *RuleRegistryV1) GetRules(product string) ([]Rule, error) {
	rules, exists := r.rules[product]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeRuleNotFound, "no rules registered for %s", product)
	}

	return rules, nil
}

// ListProducts returns every product with rules, sorted.
func (r *RuleRegistryV1) ListProducts() []string {
	products := make([]string, 0, len(r.rules))
	for product := range r.rules {
		products = append(products, product)
	}

	sort.Strings(products)

	return products
}

// RemoveRules drops every rule of product.
func (r *RuleRegistryV1) RemoveRules(product string) error {
	if _, exists := r.rules[product]; !exists {
		return errors.Newf(errors.ErrCodeRuleNotFound, "no rules registered for %s", product)
	}

	delete(r.rules, product)

	return nil
}

// ruleTypes lists the rule types registered for product, used for logging.
func ruleTypes(rules []Rule) []string {
	names := make([]string, 0, len(rules))
	for _, rule := range rules {
		names = append(names, string(rule.Type()))
	}

	return names
}

