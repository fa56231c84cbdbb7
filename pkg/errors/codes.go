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
	CodeInternal       ErrorCode = "COMMON_001"
	CodeInvalidParam   ErrorCode = "COMMON_002"
	CodeNotFound       ErrorCode = "COMMON_003"
	CodeConflict       ErrorCode = "COMMON_004"
	CodeValidation     ErrorCode = "COMMON_005"
	CodeTimeout        ErrorCode = "COMMON_006"
	CodeSerialization  ErrorCode = "COMMON_007"
	CodeDatabaseError  ErrorCode = "COMMON_008"
	CodeCacheError     ErrorCode = "COMMON_009"
	CodeExternalService ErrorCode = "COMMON_010"
	CodeUnknown        ErrorCode = "COMMON_999"
	CodeOK             ErrorCode = "OK"
)

// Structure retrieval error codes.
const (
	CodePDBInvalidID      ErrorCode = "PDB_001"
	CodePDBPageUnavailable ErrorCode = "PDB_002"
	CodePDBDownloadFailed ErrorCode = "PDB_003"
)

// Preparation pipeline error codes.
const (
	CodePrepInputNotFound    ErrorCode = "PREP_001"
	CodePrepProtonationFailed ErrorCode = "PREP_002"
	CodePrepConversionFailed ErrorCode = "PREP_003"
	CodePrepToolNotFound     ErrorCode = "PREP_004"
)

// Job management error codes.
const (
	CodeJobNotFound     ErrorCode = "JOB_001"
	CodeJobPublishFailed ErrorCode = "JOB_002"
	CodeJobInvalidState ErrorCode = "JOB_003"
)

// ErrorCodeHTTPStatus maps every error code to the HTTP status returned by
// the API layer.  Codes absent from the map default to 500.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	CodeInternal:        http.StatusInternalServerError,
	CodeInvalidParam:    http.StatusBadRequest,
	CodeNotFound:        http.StatusNotFound,
	CodeConflict:        http.StatusConflict,
	CodeValidation:      http.StatusUnprocessableEntity,
	CodeTimeout:         http.StatusGatewayTimeout,
	CodeSerialization:   http.StatusInternalServerError,
	CodeDatabaseError:   http.StatusInternalServerError,
	CodeCacheError:      http.StatusInternalServerError,
	CodeExternalService: http.StatusBadGateway,

	CodePDBInvalidID:       http.StatusBadRequest,
	CodePDBPageUnavailable: http.StatusBadGateway,
	CodePDBDownloadFailed:  http.StatusBadGateway,

	CodePrepInputNotFound:     http.StatusNotFound,
	CodePrepProtonationFailed: http.StatusInternalServerError,
	CodePrepConversionFailed:  http.StatusInternalServerError,
	CodePrepToolNotFound:      http.StatusInternalServerError,

	CodeJobNotFound:      http.StatusNotFound,
	CodeJobPublishFailed: http.StatusServiceUnavailable,
	CodeJobInvalidState:  http.StatusConflict,
}

// ErrorCodeMessage maps every error code to a default human-readable message
// used when the caller does not supply one.
var ErrorCodeMessage = map[ErrorCode]string{
	CodeInternal:        "internal server error",
	CodeInvalidParam:    "invalid parameter",
	CodeNotFound:        "resource not found",
	CodeConflict:        "resource conflict",
	CodeValidation:      "validation failed",
	CodeTimeout:         "operation timed out",
	CodeSerialization:   "serialization failed",
	CodeDatabaseError:   "database error",
	CodeCacheError:      "cache error",
	CodeExternalService: "external service error",

	CodePDBInvalidID:       "invalid PDB identifier",
	CodePDBPageUnavailable: "structure page unavailable",
	CodePDBDownloadFailed:  "structure file download failed",

	CodePrepInputNotFound:     "preparation input file not found",
	CodePrepProtonationFailed: "protonation failed",
	CodePrepConversionFailed:  "format conversion failed",
	CodePrepToolNotFound:      "external tool not found",

	CodeJobNotFound:      "preparation job not found",
	CodeJobPublishFailed: "failed to enqueue preparation job",
	CodeJobInvalidState:  "preparation job is in an invalid state",
}

// HTTPStatusForCode returns the HTTP status associated with code, or 500 when
// the code is unknown.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message associated with code, or
// "unknown error" when the code is unknown.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// ModuleForCode returns the module prefix of a code ("COMMON", "PDB", "PREP",
// "JOB"), or "UNKNOWN" when the code does not follow the MODULE_NNN convention.
func ModuleForCode(code ErrorCode) string {
	idx := strings.LastIndex(string(code), "_")
	if idx <= 0 {
		return "UNKNOWN"
	}
	return string(code)[:idx]
}

// IsClientError reports whether code maps to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError reports whether code maps to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	return HTTPStatusForCode(code) >= 500
}
