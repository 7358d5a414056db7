package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidOrder         ErrorCode = 102
	ErrCodeInvalidPeriod        ErrorCode = 103
	ErrCodeInvalidVersion       ErrorCode = 104
	ErrCodeInvalidThreshold     ErrorCode = 105
	ErrCodeInvalidWindow        ErrorCode = 106
	ErrCodeMissingParameter     ErrorCode = 107

	// Missing market data (200-299). Recovered locally by skipping the rule.
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeEmptyBook             ErrorCode = 201
	ErrCodeMissingOrderBook      ErrorCode = 202
	ErrCodeMissingObservation    ErrorCode = 203
	ErrCodeInsufficientData      ErrorCode = 204
	ErrCodeInvalidReferencePrice ErrorCode = 205

	// Rule errors (400-499)
	ErrCodeRuleNotFound      ErrorCode = 400
	ErrCodeRuleAlreadyExists ErrorCode = 401
	ErrCodeUnsupportedRule   ErrorCode = 402
	ErrCodeRuleRuntimeError  ErrorCode = 403
	ErrCodeVersionMismatch   ErrorCode = 404

	// Order errors (500-599)
	ErrCodeCapacityExhausted ErrorCode = 500

	// Replay errors (600-699)
	ErrCodeReplayNoPolicy      ErrorCode = 600
	ErrCodeReplaySourceFailed  ErrorCode = 601
	ErrCodeReplayDecodeFailed  ErrorCode = 602
	ErrCodeJournalNotReady     ErrorCode = 603
	ErrCodeJournalWriteFailed  ErrorCode = 604
	ErrCodeJournalExportFailed ErrorCode = 605
)
