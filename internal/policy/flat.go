package policy

import (
	"github.com/rxtech-lab/argo-policy/internal/types"
)

// Flat never trades. It marks products that are configured but deliberately left without a rule.
type Flat struct {
	product string
}

func NewFlat(product string) *Flat {
	return &Flat{product: product}
}

func (r *Flat) Type() types.RuleType {
	return types.RuleTypeFlat
}

func (r *Flat) Product() string {
	return r.product
}

func (r *Flat) Dependencies() []string {
	return nil
}

func (r *Flat) Decide(StepContext) ([]types.Decision, error) {
	return nil, nil
}
