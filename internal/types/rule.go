package types

// RuleType tags the variant of a per-product trading rule.
type RuleType string

const (
	RuleTypeStableQuote           RuleType = "stable_quote"
	RuleTypeTrendFollow           RuleType = "trend_follow"
	RuleTypePairsArbitrage        RuleType = "pairs_arbitrage"
	RuleTypeSeasonal              RuleType = "seasonal"
	RuleTypeCorrelatedObservation RuleType = "correlated_observation"
	RuleTypeBasketArbitrage       RuleType = "basket_arbitrage"
	RuleTypeCounterpartyFollow    RuleType = "counterparty_follow"
	RuleTypeFlat                  RuleType = "flat"
)

// AllRuleTypes lists every rule variant, used for config validation and schema enums.
var AllRuleTypes = []RuleType{
	RuleTypeStableQuote,
	RuleTypeTrendFollow,
	RuleTypePairsArbitrage,
	RuleTypeSeasonal,
	RuleTypeCorrelatedObservation,
	RuleTypeBasketArbitrage,
	RuleTypeCounterpartyFollow,
	RuleTypeFlat,
}

// TrendMode selects how a trend-follow rule turns its history into orders.
type TrendMode string

const (
	// TrendModeQuote quotes around a moving-average fair value with a spread-scaled half spread.
	TrendModeQuote TrendMode = "quote"
	// TrendModeCrossover crosses the spread on a fast/slow moving-average cross of the VWAP series.
	TrendModeCrossover TrendMode = "crossover"
	// TrendModeReversal crosses the spread when the VWAP breaks a monotonic run.
	TrendModeReversal TrendMode = "reversal"
)

// LogLevel is the severity of a step log entry.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)
