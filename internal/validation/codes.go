package validation

// Stable machine-readable codes carried on every validation error.
const (
	CodeFieldRequired      = "FIELD_REQUIRED"
	CodeInvalidType        = "INVALID_TYPE"
	CodeValueTooLow        = "VALUE_TOO_LOW"
	CodeValueTooHigh       = "VALUE_TOO_HIGH"
	CodeStringTooShort     = "STRING_TOO_SHORT"
	CodeStringTooLong      = "STRING_TOO_LONG"
	CodeInvalidDate        = "INVALID_DATE"
	CodeDateNotFuture      = "DATE_NOT_FUTURE"
	CodeDateTooEarly       = "DATE_TOO_EARLY"
	CodeValueNotUnique     = "VALUE_NOT_UNIQUE"
	CodeValidationError    = "VALIDATION_ERROR"
	CodeBusinessRuleError  = "BUSINESS_RULE_ERROR"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeInvalidResidueType = "INVALID_RESIDUE_TYPE"
	CodeInvalidTimeSlot    = "INVALID_TIME_SLOT"
	CodeInvalidWeekday     = "INVALID_WEEKDAY"
	CodeDailyLimitExceeded = "DAILY_LIMIT_EXCEEDED"
)
