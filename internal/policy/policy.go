// Package policy implements the multi-product decision policy.
//
// A Policy owns everything that lives for a whole run: the position limits,
// the product -> rule registry and the rolling histories. Each step it first
// observes the snapshot, appending the tracked mid prices, VWAPs and
// observations, and then asks every rule for decisions which the emitter
// turns into capacity-capped orders.
package policy

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-policy/internal/config"
	"github.com/rxtech-lab/argo-policy/internal/emitter"
	"github.com/rxtech-lab/argo-policy/internal/history"
	"github.com/rxtech-lab/argo-policy/internal/indicator"
	"github.com/rxtech-lab/argo-policy/internal/logger"
	"github.com/rxtech-lab/argo-policy/internal/position"
	"github.com/rxtech-lab/argo-policy/internal/types"
	"github.com/rxtech-lab/argo-policy/pkg/errors"
	"go.uber.org/zap"
)

// SkippedRule records a rule that could not decide on a step because data was missing.
type SkippedRule struct {
	Product string
	Type    types.RuleType
	Reason  string
}

// Trace is the full outcome of one step.
type Trace struct {
	Timestamp int64
	// Observed is false when the snapshot was not newer than the last observed one.
	Observed  bool
	Orders    types.Orders
	Decisions []types.Decision
	Skipped   []SkippedRule
}

// Policy is the per-run decision policy. It is not safe for concurrent use.
type Policy struct {
	limits   position.Limits
	registry RuleRegistry
	history  *history.Store
	logger   *logger.Logger
	tracked  []string
	// lastObserved is the timestamp of the newest observed snapshot.
	lastObserved optional.Option[int64]
}

// New creates a policy over an already populated registry.
func New(limits position.Limits, registry RuleRegistry, log *logger.Logger) (*Policy, error) {
	if registry == nil {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "registry is required")
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	p := &Policy{
		limits:       limits,
		registry:     registry,
		history:      history.NewStore(),
		logger:       log,
		lastObserved: optional.None[int64](),
	}

	seen := make(map[string]bool)

	for _, product := range registry.ListProducts() {
		rules, err := registry.GetRules(product)
		if err != nil {
			return nil, err
		}

		keys := []string{product}
		for _, rule := range rules {
			keys = append(keys, rule.Dependencies()...)
		}

		for _, key := range keys {
			if !seen[key] {
				seen[key] = true
				p.tracked = append(p.tracked, key)
			}
		}

		log.Debug("Registered product", zap.String("product", product), zap.Strings("rules", ruleTypes(rules)))
	}

	return p, nil
}

// NewFromConfig creates a policy from a validated configuration.
func NewFromConfig(cfg *config.PolicyConfig, log *logger.Logger) (*Policy, error) {
	registry, err := NewRegistryFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	return New(position.Limits(cfg.Limits), registry, log)
}

// Step observes snapshot and returns the orders for it.
// Stepping the same snapshot again returns the same orders without growing the histories.
func (p *Policy) Step(snapshot types.Snapshot) (types.Orders, error) {
	trace, err := p.StepWithTrace(snapshot)
	if err != nil {
		return nil, err
	}

	return trace.Orders, nil
}

// StepWithTrace is Step that also reports the decisions and skipped rules.
func (p *Policy) StepWithTrace(snapshot types.Snapshot) (Trace, error) {
	observed := p.Observe(snapshot)

	trace, err := p.Evaluate(snapshot)
	if err != nil {
		return Trace{}, err
	}

	trace.Observed = observed

	return trace, nil
}

// Observe appends the snapshot's tracked values to the rolling histories.
// It returns false and changes nothing when the snapshot is not newer than the last observed one.
func (p *Policy) Observe(snapshot types.Snapshot) bool {
	if last, err := p.lastObserved.Take(); err == nil && snapshot.Timestamp <= last {
		p.logger.Debug("Snapshot already observed", zap.Int64("timestamp", snapshot.Timestamp), zap.Int64("last", last))

		return false
	}

	for _, key := range p.tracked {
		if book, ok := snapshot.Book(key); ok {
			if mid, err := indicator.MidPrice(book); err == nil {
				p.history.Append(key, history.SeriesMid, mid)
			}

			if book.HasBids() {
				p.history.Append(key, history.SeriesVWAPBid, indicator.VWAPBid(book))
			}

			if book.HasAsks() {
				p.history.Append(key, history.SeriesVWAPAsk, indicator.VWAPAsk(book))
			}
		}

		if value, ok := snapshot.Observation(key); ok {
			p.history.Append(key, history.SeriesObservation, value)
		}
	}

	p.lastObserved = optional.Some(snapshot.Timestamp)

	return true
}

// Decide returns the orders for snapshot from the current histories without changing any state.
func (p *Policy) Decide(snapshot types.Snapshot) (types.Orders, error) {
	trace, err := p.Evaluate(snapshot)
	if err != nil {
		return nil, err
	}

	return trace.Orders, nil
}

// Evaluate runs every rule against snapshot, products in sorted order and rules in registration order.
// Missing-data errors skip the rule for this step; any other error aborts the step.
func (p *Policy) Evaluate(snapshot types.Snapshot) (Trace, error) {
	out := emitter.New(p.limits, snapshot.Positions, p.logger)
	trace := Trace{Timestamp: snapshot.Timestamp}

	for _, product := range p.registry.ListProducts() {
		rules, err := p.registry.GetRules(product)
		if err != nil {
			return Trace{}, err
		}

		for _, rule := range rules {
			ctx := StepContext{
				Snapshot: snapshot,
				History:  p.history,
				Capacity: out.Remaining(product),
			}

			decisions, err := rule.Decide(ctx)
			if err != nil {
				if errors.IsMissingData(err) {
					p.logger.Debug("Rule skipped",
						zap.String("product", product),
						zap.String("rule", string(rule.Type())),
						zap.Int64("timestamp", snapshot.Timestamp),
						zap.Error(err),
					)

					trace.Skipped = append(trace.Skipped, SkippedRule{Product: product, Type: rule.Type(), Reason: err.Error()})

					continue
				}

				return Trace{}, errors.Wrapf(errors.ErrCodeRuleRuntimeError, err, "%s rule for %s failed", rule.Type(), product)
			}

			for _, decision := range decisions {
				placed, err := out.Apply(decision)
				if err != nil {
					return Trace{}, errors.Wrapf(errors.ErrCodeRuleRuntimeError, err, "%s rule for %s produced an invalid order", rule.Type(), product)
				}

				if placed {
					trace.Decisions = append(trace.Decisions, decision)
				}
			}
		}
	}

	trace.Orders = out.Orders()

	return trace, nil
}

// History returns a read-only view of the rolling histories.
func (p *Policy) History() history.Reader {
	return p.history
}

// Products returns the products the policy trades, sorted.
func (p *Policy) Products() []string {
	return p.registry.ListProducts()
}

// Reset drops all histories so the policy can start a new run.
func (p *Policy) Reset() {
	p.history.Reset()
	p.lastObserved = optional.None[int64]()
}
