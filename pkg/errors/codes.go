package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTimeout            ErrorCode = "COMMON_005"
	ErrCodeValidation         ErrorCode = "COMMON_006"
	ErrCodeSerialization      ErrorCode = "COMMON_007"
	ErrCodeDatabaseError      ErrorCode = "COMMON_008"
	ErrCodeCacheError         ErrorCode = "COMMON_009"
	ErrCodeMessagingError     ErrorCode = "COMMON_010"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_011"
	ErrCodeNotImplemented     ErrorCode = "COMMON_012"
)

// Risk engine error codes.
const (
	ErrCodeUnknownActivityType    ErrorCode = "RISK_001"
	ErrCodeUnknownIntensity       ErrorCode = "RISK_002"
	ErrCodeUnknownExperienceLevel ErrorCode = "RISK_003"
	ErrCodeUnknownRiskFactor      ErrorCode = "RISK_004"
	ErrCodeMissingInput           ErrorCode = "RISK_005"
	ErrCodeEmptyRoster            ErrorCode = "RISK_006"
)

// Statistical analysis error codes.  These classify failures inside a single
// trend sub-analysis; the analyzer logs them and omits the field rather than
// propagating them to callers.
const (
	ErrCodeRegressionFailed    ErrorCode = "STAT_001"
	ErrCodeCorrelationFailed   ErrorCode = "STAT_002"
	ErrCodeStationarityFailed  ErrorCode = "STAT_003"
	ErrCodeDecompositionFailed ErrorCode = "STAT_004"
	ErrCodeClusteringFailed    ErrorCode = "STAT_005"
)

// Short aliases used at call sites throughout the codebase.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeValidation   = ErrCodeValidation
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.  The engine is a
// library boundary; the upstream request-handling collaborator uses this map
// when translating engine errors into API responses.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeUnknownActivityType:    http.StatusUnprocessableEntity,
	ErrCodeUnknownIntensity:       http.StatusUnprocessableEntity,
	ErrCodeUnknownExperienceLevel: http.StatusUnprocessableEntity,
	ErrCodeUnknownRiskFactor:      http.StatusUnprocessableEntity,
	ErrCodeMissingInput:           http.StatusUnprocessableEntity,
	ErrCodeEmptyRoster:            http.StatusUnprocessableEntity,

	ErrCodeRegressionFailed:    http.StatusInternalServerError,
	ErrCodeCorrelationFailed:   http.StatusInternalServerError,
	ErrCodeStationarityFailed:  http.StatusInternalServerError,
	ErrCodeDecompositionFailed: http.StatusInternalServerError,
	ErrCodeClusteringFailed:    http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTimeout:            "operation timed out",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeMessagingError:     "message publish failed",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeUnknownActivityType:    "activity type is not in the recognized vocabulary",
	ErrCodeUnknownIntensity:       "intensity is not in the recognized vocabulary",
	ErrCodeUnknownExperienceLevel: "experience level is not in the recognized vocabulary",
	ErrCodeUnknownRiskFactor:      "risk factor is not in the recognized vocabulary",
	ErrCodeMissingInput:           "required assessment input is missing",
	ErrCodeEmptyRoster:            "student roster is empty",

	ErrCodeRegressionFailed:    "trend regression failed",
	ErrCodeCorrelationFailed:   "correlation analysis failed",
	ErrCodeStationarityFailed:  "stationarity test failed",
	ErrCodeDecompositionFailed: "seasonal decomposition failed",
	ErrCodeClusteringFailed:    "incident clustering failed",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
