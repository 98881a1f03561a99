package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidOrderRequest  ErrorCode = 102
	ErrCodeInvalidQuantity      ErrorCode = 103
	ErrCodeInvalidPrice         ErrorCode = 104

	// Market data errors (200-299)
	ErrCodeUnknownInstrument   ErrorCode = 200
	ErrCodeInactiveInstrument  ErrorCode = 201
	ErrCodeInsufficientHistory ErrorCode = 202

	// Indicator errors (300-399)
	ErrCodeIndicatorCalculation ErrorCode = 300

	// Strategy/signal errors (400-499)
	ErrCodeUnknownAssetClass    ErrorCode = 400
	ErrCodeSocialMetricsMissing ErrorCode = 401
	ErrCodeNoActiveSignal       ErrorCode = 402

	// Risk errors (500-599)
	ErrCodeRiskLimitExceeded ErrorCode = 500

	// Execution errors (600-699)
	ErrCodeInsufficientFunds    ErrorCode = 600
	ErrCodeInsufficientPosition ErrorCode = 601
	ErrCodeLimitNotReached      ErrorCode = 602
	ErrCodeUnknownPortfolio     ErrorCode = 603

	// Journal errors (700-799)
	ErrCodeJournalWriteFailed ErrorCode = 700
	ErrCodeJournalQueryFailed ErrorCode = 701
)
