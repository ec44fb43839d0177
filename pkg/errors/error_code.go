package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter      ErrorCode = 100
	ErrCodeInvalidConfiguration  ErrorCode = 101
	ErrCodeConfigurationMismatch ErrorCode = 102
	ErrCodeInvalidWeight         ErrorCode = 103
	ErrCodeInvalidBounds         ErrorCode = 104
	ErrCodeInvalidThreshold      ErrorCode = 105
	ErrCodeInvalidCapital        ErrorCode = 106
	ErrCodeInvalidBar            ErrorCode = 107
	ErrCodeInsufficientData      ErrorCode = 108
	ErrCodeInvalidPeriod         ErrorCode = 109
	ErrCodeMissingParameter      ErrorCode = 110
	ErrCodeInvalidType           ErrorCode = 111

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeNoDataFound           ErrorCode = 204

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301

	// Backtest errors (600-699)
	ErrCodeBacktestStateNil     ErrorCode = 600
	ErrCodeBacktestInitFailed   ErrorCode = 601
	ErrCodeBacktestConfigError  ErrorCode = 602
	ErrCodeBacktestNoSymbols    ErrorCode = 604
	ErrCodeBacktestNoDatasource ErrorCode = 608
	ErrCodeBacktestWriteFailed  ErrorCode = 609

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataWriteFailed ErrorCode = 701
	ErrCodeInvalidTimespan       ErrorCode = 703
	ErrCodeInvalidProvider       ErrorCode = 704

	// Optimizer errors (900-999)
	ErrCodeOptimizerEvaluationFailed ErrorCode = 900
	ErrCodeOptimizerProposalFailed   ErrorCode = 901
	ErrCodeOptimizerCancelled        ErrorCode = 902
)
