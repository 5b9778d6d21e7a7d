package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1
	ErrCodeTimeout ErrorCode = 2

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidPeriod        ErrorCode = 102
	ErrCodeMissingParameter     ErrorCode = 103
	ErrCodeInvalidTick          ErrorCode = 104

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeWriteFailed           ErrorCode = 203
	ErrCodeExportFailed          ErrorCode = 204

	// Alert errors (400-499)
	ErrCodeInvalidAlertCondition ErrorCode = 400
	ErrCodeInvalidAlertRequest   ErrorCode = 401
	ErrCodeAlertNotFound         ErrorCode = 402
	ErrCodeAlertPersistFailed    ErrorCode = 403

	// Backtest errors (600-699)
	ErrCodeBacktestCancelled   ErrorCode = 600
	ErrCodeBacktestConfigError ErrorCode = 601
	ErrCodeBacktestHistory     ErrorCode = 602

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataParseFailed ErrorCode = 701
	ErrCodeInvalidProvider       ErrorCode = 702

	// Prediction errors (800-899)
	ErrCodePredictionFailed    ErrorCode = 800
	ErrCodePredictionMalformed ErrorCode = 801
)

// Category returns the group an error code belongs to.
func (c ErrorCode) Category() string {
	switch {
	case c >= 100 && c < 200:
		return "validation"
	case c >= 200 && c < 300:
		return "data"
	case c >= 400 && c < 500:
		return "alert"
	case c >= 600 && c < 700:
		return "backtest"
	case c >= 700 && c < 800:
		return "market_data"
	case c >= 800 && c < 900:
		return "prediction"
	default:
		return "general"
	}
}
