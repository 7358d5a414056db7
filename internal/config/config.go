// Package config loads, validates and documents policy configuration files.
//
// A configuration names the position limit of every product and the ordered
// list of rules the policy runs. Files may be written in YAML, TOML or JSON;
// the format is picked from the file extension.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-policy/internal/types"
	"github.com/rxtech-lab/argo-policy/internal/version"
	"github.com/rxtech-lab/argo-policy/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultConfig []byte

// Format is the encoding of a configuration file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidConfiguration, "unsupported config file extension %q", filepath.Ext(path))
	}
}

// PolicyConfig is the root of a policy configuration file.
type PolicyConfig struct {
	Version string         `yaml:"version" json:"version" toml:"version" validate:"required" jsonschema:"title=Version,description=Configuration schema version,example=1.1.0"`
	Name    string         `yaml:"name" json:"name,omitempty" toml:"name" jsonschema:"title=Name,description=Human readable policy name"`
	Limits  map[string]int `yaml:"limits" json:"limits" toml:"limits" validate:"required,min=1,dive,keys,required,endkeys,gte=0" jsonschema:"title=Position Limits,description=Maximum absolute inventory per product"`
	Rules   []RuleConfig   `yaml:"rules" json:"rules" toml:"rules" validate:"required,min=1,dive" jsonschema:"title=Rules,description=Per product rules evaluated in order every step"`
}

// RuleConfig configures one rule. Exactly the section matching Type must be set.
type RuleConfig struct {
	Product string         `yaml:"product" json:"product" toml:"product" validate:"required" jsonschema:"title=Product,description=Product the rule trades"`
	Type    types.RuleType `yaml:"type" json:"type" toml:"type" validate:"required,oneof=stable_quote trend_follow pairs_arbitrage seasonal correlated_observation basket_arbitrage counterparty_follow flat" jsonschema:"title=Rule Type"`

	StableQuote  *StableQuoteConfig  `yaml:"stable_quote,omitempty" json:"stable_quote,omitempty" toml:"stable_quote,omitempty" validate:"required_if=Type stable_quote"`
	TrendFollow  *TrendFollowConfig  `yaml:"trend_follow,omitempty" json:"trend_follow,omitempty" toml:"trend_follow,omitempty" validate:"required_if=Type trend_follow"`
	Pairs        *PairsConfig        `yaml:"pairs_arbitrage,omitempty" json:"pairs_arbitrage,omitempty" toml:"pairs_arbitrage,omitempty" validate:"required_if=Type pairs_arbitrage"`
	Seasonal     *SeasonalConfig     `yaml:"seasonal,omitempty" json:"seasonal,omitempty" toml:"seasonal,omitempty" validate:"required_if=Type seasonal"`
	Correlated   *CorrelatedConfig   `yaml:"correlated_observation,omitempty" json:"correlated_observation,omitempty" toml:"correlated_observation,omitempty" validate:"required_if=Type correlated_observation"`
	Basket       *BasketConfig       `yaml:"basket_arbitrage,omitempty" json:"basket_arbitrage,omitempty" toml:"basket_arbitrage,omitempty" validate:"required_if=Type basket_arbitrage"`
	Counterparty *CounterpartyConfig `yaml:"counterparty_follow,omitempty" json:"counterparty_follow,omitempty" toml:"counterparty_follow,omitempty" validate:"required_if=Type counterparty_follow"`
}

// StableQuoteConfig quotes a fixed half spread around a fair value.
// The fair value is FairValue when set, otherwise the moving average of the mid price over Window steps.
type StableQuoteConfig struct {
	FairValue  *float64 `yaml:"fair_value,omitempty" json:"fair_value,omitempty" toml:"fair_value,omitempty" jsonschema:"title=Fair Value,description=Fixed fair value; omit to use the moving average of the mid price"`
	Window     int      `yaml:"window" json:"window,omitempty" toml:"window" validate:"gte=0" jsonschema:"title=Window,description=Moving average window in steps,minimum=0"`
	HalfSpread float64  `yaml:"half_spread" json:"half_spread" toml:"half_spread" validate:"gte=0" jsonschema:"title=Half Spread,minimum=0"`
}

// TrendFollowConfig configures one of the trend-following modes.
type TrendFollowConfig struct {
	Mode types.TrendMode `yaml:"mode" json:"mode" toml:"mode" validate:"required,oneof=quote crossover reversal" jsonschema:"title=Mode,enum=quote,enum=crossover,enum=reversal"`
	// quote mode
	Window            int     `yaml:"window,omitempty" json:"window,omitempty" toml:"window,omitempty" validate:"gte=0" jsonschema:"title=Window,description=Fair value moving average window (quote mode)"`
	SpreadCoefficient float64 `yaml:"spread_coefficient,omitempty" json:"spread_coefficient,omitempty" toml:"spread_coefficient,omitempty" validate:"gte=0" jsonschema:"title=Spread Coefficient,description=Half spread as a multiple of the book spread (quote mode)"`
	Exponential       bool    `yaml:"exponential,omitempty" json:"exponential,omitempty" toml:"exponential,omitempty" jsonschema:"title=Exponential,description=Use an exponential moving average for the fair value (quote mode)"`
	// crossover mode
	FastWindow int `yaml:"fast_window,omitempty" json:"fast_window,omitempty" toml:"fast_window,omitempty" validate:"gte=0" jsonschema:"title=Fast Window"`
	SlowWindow int `yaml:"slow_window,omitempty" json:"slow_window,omitempty" toml:"slow_window,omitempty" validate:"gte=0" jsonschema:"title=Slow Window"`
	// reversal mode
	TrendLength int `yaml:"trend_length,omitempty" json:"trend_length,omitempty" toml:"trend_length,omitempty" validate:"gte=0" jsonschema:"title=Trend Length,description=Length of the monotonic run that must break (reversal mode)"`
}

// PairsConfig trades Product against the Driver product at a fixed price ratio.
type PairsConfig struct {
	Driver      string  `yaml:"driver" json:"driver" toml:"driver" validate:"required" jsonschema:"title=Driver,description=Product whose price drives the traded product"`
	TargetRatio float64 `yaml:"target_ratio" json:"target_ratio" toml:"target_ratio" validate:"gt=0" jsonschema:"title=Target Ratio,description=Expected mid(product)/mid(driver)"`
	Tolerance   float64 `yaml:"tolerance" json:"tolerance" toml:"tolerance" validate:"gte=0" jsonschema:"title=Tolerance"`
}

// SeasonalWindow is an inclusive timestamp range in which the rule trades one side.
type SeasonalWindow struct {
	Start int64            `yaml:"start" json:"start" toml:"start" validate:"gte=0" jsonschema:"title=Start"`
	End   int64            `yaml:"end" json:"end" toml:"end" validate:"gtefield=Start" jsonschema:"title=End"`
	Side  types.SignalType `yaml:"side" json:"side" toml:"side" validate:"required,oneof=buy sell" jsonschema:"title=Side,enum=buy,enum=sell"`
}

// SeasonalConfig lists the windows of a seasonal rule.
type SeasonalConfig struct {
	Windows []SeasonalWindow `yaml:"windows" json:"windows" toml:"windows" validate:"required,min=1,dive" jsonschema:"title=Windows"`
}

// CorrelatedConfig trades on the step-to-step change of an observation.
type CorrelatedConfig struct {
	Observation string  `yaml:"observation" json:"observation" toml:"observation" validate:"required" jsonschema:"title=Observation,description=Observation key"`
	Threshold   float64 `yaml:"threshold" json:"threshold" toml:"threshold" validate:"gte=0" jsonschema:"title=Threshold"`
	Inverse     bool    `yaml:"inverse,omitempty" json:"inverse,omitempty" toml:"inverse,omitempty" jsonschema:"title=Inverse,description=Sell on a rise and buy on a fall"`
}

// BasketConfig prices Product as Premium plus the weighted sum of component mid prices.
type BasketConfig struct {
	Components map[string]float64 `yaml:"components" json:"components" toml:"components" validate:"required,min=1,dive,keys,required,endkeys,required" jsonschema:"title=Components,description=Component product to weight"`
	Premium    float64            `yaml:"premium" json:"premium" toml:"premium" jsonschema:"title=Premium"`
	Threshold  float64            `yaml:"threshold" json:"threshold" toml:"threshold" validate:"gte=0" jsonschema:"title=Threshold"`
}

// CounterpartyConfig copies the trades of a named counterparty.
type CounterpartyConfig struct {
	Counterparty string `yaml:"counterparty" json:"counterparty" toml:"counterparty" validate:"required" jsonschema:"title=Counterparty"`
	Offset       int    `yaml:"offset" json:"offset" toml:"offset" validate:"gte=0" jsonschema:"title=Offset,description=Ticks added beyond the worst price"`
}

// Load reads and validates the configuration at path.
func Load(path string) (*PolicyConfig, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}

	return Parse(data, format)
}

// Parse decodes and validates a configuration.
func Parse(data []byte, format Format) (*PolicyConfig, error) {
	var cfg PolicyConfig

	var err error

	switch format {
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		err = decoder.Decode(&cfg)
	case FormatTOML:
		_, err = toml.Decode(string(data), &cfg)
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		err = decoder.Decode(&cfg)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unsupported config format %q", format)
	}

	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to decode %s config", format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the built-in configuration for the ten-product competition round.
func Default() (*PolicyConfig, error) {
	return Parse(defaultConfig, FormatYAML)
}

// Validate runs the struct tag validation followed by the checks that span several fields.
func (c *PolicyConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid policy config", err)
	}

	if err := version.CheckConfigVersion(c.Version); err != nil {
		return err
	}

	for i, rule := range c.Rules {
		if _, ok := c.Limits[rule.Product]; !ok {
			return errors.Newf(errors.ErrCodeInvalidConfiguration, "rules[%d]: product %s has no position limit", i, rule.Product)
		}

		if err := rule.validate(); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "rules[%d] (%s %s)", i, rule.Product, rule.Type)
		}
	}

	return nil
}

// Products returns the products that carry at least one rule, sorted and deduplicated.
func (c *PolicyConfig) Products() []string {
	products := make([]string, 0, len(c.Rules))
	for _, rule := range c.Rules {
		products = append(products, rule.Product)
	}

	slices.Sort(products)

	return slices.Compact(products)
}

func (r RuleConfig) validate() error {
	switch r.Type {
	case types.RuleTypeStableQuote:
		if r.StableQuote.FairValue == nil && r.StableQuote.Window == 0 {
			return errors.New(errors.ErrCodeMissingParameter, "stable quote needs either fair_value or window")
		}
	case types.RuleTypeTrendFollow:
		return r.TrendFollow.validate()
	case types.RuleTypePairsArbitrage:
		if r.Pairs.Driver == r.Product {
			return errors.New(errors.ErrCodeInvalidParameter, "pairs driver must differ from the traded product")
		}
	case types.RuleTypeSeasonal:
		for i, window := range r.Seasonal.Windows {
			if window.End < window.Start {
				return errors.Newf(errors.ErrCodeInvalidWindow, "windows[%d] ends before it starts", i)
			}
		}
	case types.RuleTypeBasketArbitrage:
		if _, ok := r.Basket.Components[r.Product]; ok {
			return errors.New(errors.ErrCodeInvalidParameter, "basket cannot list itself as a component")
		}
	case types.RuleTypeCorrelatedObservation, types.RuleTypeCounterpartyFollow, types.RuleTypeFlat:
	default:
		return errors.Newf(errors.ErrCodeUnsupportedRule, "unsupported rule type %q", r.Type)
	}

	return nil
}

func (t *TrendFollowConfig) validate() error {
	switch t.Mode {
	case types.TrendModeQuote:
		if t.Window <= 0 {
			return errors.New(errors.ErrCodeInvalidPeriod, "quote mode needs a positive window")
		}
	case types.TrendModeCrossover:
		if t.FastWindow <= 0 || t.SlowWindow <= t.FastWindow {
			return errors.Newf(errors.ErrCodeInvalidWindow, "crossover needs 0 < fast_window < slow_window, got %d and %d", t.FastWindow, t.SlowWindow)
		}
	case types.TrendModeReversal:
		if t.TrendLength < 2 {
			return errors.Newf(errors.ErrCodeInvalidWindow, "reversal needs trend_length >= 2, got %d", t.TrendLength)
		}
	}

	return nil
}
