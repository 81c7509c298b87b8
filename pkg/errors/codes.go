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
	ErrCodeBadRequest     ErrorCode = "COMMON_002"
	ErrCodeNotFound       ErrorCode = "COMMON_003"
	ErrCodeConflict       ErrorCode = "COMMON_004"
	ErrCodeValidation     ErrorCode = "COMMON_005"
	ErrCodeSerialization  ErrorCode = "COMMON_006"
	ErrCodeNotImplemented ErrorCode = "COMMON_007"
)

// Dataset error codes.
const (
	ErrCodeDatasetUnsupported    ErrorCode = "DS_001"
	ErrCodePropertyNotMapped     ErrorCode = "DS_002"
	ErrCodeFormatUnsupported     ErrorCode = "DS_003"
	ErrCodeInvalidFold           ErrorCode = "DS_004"
	ErrCodeInvalidMolecule       ErrorCode = "DS_005"
	ErrCodeInvalidHeavyAtomCount ErrorCode = "DS_006"
	ErrCodeInvalidCutoff         ErrorCode = "DS_007"
	ErrCodeProfileUnknown        ErrorCode = "DS_008"
)

// Data / storage error codes.
const (
	ErrCodeDatabaseError         ErrorCode = "DATA_001"
	ErrCodePropertyNotAvailable  ErrorCode = "DATA_002"
	ErrCodeIndexOutOfRange       ErrorCode = "DATA_003"
	ErrCodeConversionFailed      ErrorCode = "DATA_004"
	ErrCodeParseError            ErrorCode = "DATA_005"
	ErrCodeDataSourceUnavailable ErrorCode = "DATA_006"
)

// Short aliases used at call sites throughout the codebase.
const (
	CodeInternal           = ErrCodeInternal
	CodeInvalidParam       = ErrCodeBadRequest
	CodeNotFound           = ErrCodeNotFound
	CodeConflict           = ErrCodeConflict
	CodeValidation         = ErrCodeValidation
	CodeSerialization      = ErrCodeSerialization
	CodeNotImplemented     = ErrCodeNotImplemented
	CodeDatasetUnsupported = ErrCodeDatasetUnsupported
	CodePropertyNotMapped  = ErrCodePropertyNotMapped
	CodeFormatUnsupported  = ErrCodeFormatUnsupported
	CodeDatabaseError      = ErrCodeDatabaseError
	CodeConversionFailed   = ErrCodeConversionFailed
	CodeParseError         = ErrCodeParseError

	CodeOK      = ErrorCode("OK")
	CodeUnknown = ErrorCode("UNKNOWN")
)

// clientCodes classifies codes caused by bad caller input or configuration,
// as opposed to internal or storage failures.  The CLI uses this split to
// decide whether to print usage hints.
var clientCodes = map[ErrorCode]bool{
	ErrCodeBadRequest:            true,
	ErrCodeNotFound:              true,
	ErrCodeValidation:            true,
	ErrCodeDatasetUnsupported:    true,
	ErrCodePropertyNotMapped:     true,
	ErrCodeFormatUnsupported:     true,
	ErrCodeInvalidFold:           true,
	ErrCodeInvalidMolecule:       true,
	ErrCodeInvalidHeavyAtomCount: true,
	ErrCodeInvalidCutoff:         true,
	ErrCodeProfileUnknown:        true,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:       "internal error",
	ErrCodeBadRequest:     "bad request",
	ErrCodeNotFound:       "resource not found",
	ErrCodeConflict:       "resource conflict",
	ErrCodeValidation:     "validation failed",
	ErrCodeSerialization:  "serialization failed",
	ErrCodeNotImplemented: "not implemented",

	ErrCodeDatasetUnsupported:    "unsupported dataset kind",
	ErrCodePropertyNotMapped:     "property not contained in property mapping",
	ErrCodeFormatUnsupported:     "unsupported file format",
	ErrCodeInvalidFold:           "unknown ISO17 fold",
	ErrCodeInvalidMolecule:       "unknown MD17 molecule",
	ErrCodeInvalidHeavyAtomCount: "heavy-atom count out of range",
	ErrCodeInvalidCutoff:         "invalid cutoff radius",
	ErrCodeProfileUnknown:        "unknown dataset profile",

	ErrCodeDatabaseError:         "atoms database error",
	ErrCodePropertyNotAvailable:  "property not available in database",
	ErrCodeIndexOutOfRange:       "structure index out of range",
	ErrCodeConversionFailed:      "file format conversion failed",
	ErrCodeParseError:            "failed to parse structure file",
	ErrCodeDataSourceUnavailable: "dataset source unavailable",
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError reports whether code identifies a caller-side failure
// (bad input, unknown tag, incompatible mapping).
func IsClientError(code ErrorCode) bool {
	return clientCodes[code]
}

// IsServerError reports whether code identifies an internal or storage
// failure rather than bad caller input.
func IsServerError(code ErrorCode) bool {
	if code == CodeOK {
		return false
	}
	return !clientCodes[code]
}

// ModuleForCode returns the module prefix of an ErrorCode ("COMMON", "DS",
// "DATA").
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
