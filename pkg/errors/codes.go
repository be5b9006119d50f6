package errors

import "strings"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal       ErrorCode = "COMMON_001"
	ErrCodeInvalidParam   ErrorCode = "COMMON_002"
	ErrCodeNotFound       ErrorCode = "COMMON_003"
	ErrCodeTimeout        ErrorCode = "COMMON_004"
	ErrCodeValidation     ErrorCode = "COMMON_005"
	ErrCodeSerialization  ErrorCode = "COMMON_006"
	ErrCodeNotImplemented ErrorCode = "COMMON_007"
	ErrCodeUnavailable    ErrorCode = "COMMON_008"
)

// Chemistry / canonicalization error codes.
const (
	ErrCodeInvalidSMILES  ErrorCode = "CHEM_001"
	ErrCodeInvalidPattern ErrorCode = "CHEM_002"
)

// Compound source error codes.
const (
	// ErrCodeResourceMissing signals that the bundled reference list cannot be
	// located or is empty.  This is a packaging defect, surfaced at
	// construction, never a recoverable runtime state.
	ErrCodeResourceMissing ErrorCode = "SRC_001"

	// ErrCodeSourceLoad signals that an explicitly supplied additional
	// compound source cannot be read.  Fatal for the construction call.
	// Malformed individual entries are not covered here; those are skipped.
	ErrCodeSourceLoad ErrorCode = "SRC_002"
)

// Catalog database error codes.
const (
	ErrCodeDatabaseError  ErrorCode = "DB_001"
	ErrCodeDatabaseConfig ErrorCode = "DB_002"
)

// CodeOK is the zero error code, returned by GetCode for nil errors.
const CodeOK = ErrorCode("OK")

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:       "internal error",
	ErrCodeInvalidParam:   "invalid parameter",
	ErrCodeNotFound:       "resource not found",
	ErrCodeTimeout:        "operation timed out",
	ErrCodeValidation:     "validation failed",
	ErrCodeSerialization:  "serialization failed",
	ErrCodeNotImplemented: "not implemented",
	ErrCodeUnavailable:    "service unavailable",

	ErrCodeInvalidSMILES:  "invalid SMILES string",
	ErrCodeInvalidPattern: "invalid substructure pattern",

	ErrCodeResourceMissing: "bundled compound resource missing",
	ErrCodeSourceLoad:      "failed to load compound source",

	ErrCodeDatabaseError:  "catalog database error",
	ErrCodeDatabaseConfig: "invalid catalog database configuration",
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
