// Package errors provides structured error handling for codecat.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors (fatal, abort the run)
//   - 2XX: IO errors (per-entry, skip and warn)
//   - 4XX: Validation errors (per-pattern or per-input, warn)
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and disk I/O errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates a skipped entry, run continues.
	SeverityWarning Severity = "WARNING"
	// SeverityInfo indicates informational only.
	SeverityInfo Severity = "INFO"
)

// Error codes organized by category.
const (
	// Config errors (100-199). These abort the run before any output
	// is produced.
	ErrCodeConfigInvalid    = "ERR_101_CONFIG_INVALID"
	ErrCodeRootInvalid      = "ERR_102_ROOT_INVALID"
	ErrCodeOutputUnwritable = "ERR_103_OUTPUT_UNWRITABLE"
	ErrCodeOutputLocked     = "ERR_104_OUTPUT_LOCKED"

	// IO errors (200-299). Per-entry: the entry is skipped, the run
	// continues, and the skip is counted in the summary.
	ErrCodeDirUnreadable    = "ERR_201_DIR_UNREADABLE"
	ErrCodeFileUnreadable   = "ERR_202_FILE_UNREADABLE"
	ErrCodeFileBinary       = "ERR_203_FILE_BINARY"
	ErrCodeFileTooLarge     = "ERR_204_FILE_TOO_LARGE"
	ErrCodeIgnoreUnreadable = "ERR_205_IGNORE_UNREADABLE"

	// Validation errors (400-499).
	ErrCodePatternInvalid  = "ERR_401_PATTERN_INVALID"
	ErrCodeInvalidInput    = "ERR_402_INVALID_INPUT"
	ErrCodePathOutsideRoot = "ERR_403_PATH_OUTSIDE_ROOT"

	// Internal errors (500-599)
	ErrCodeInternal    = "ERR_501_INTERNAL"
	ErrCodeWriteFailed = "ERR_502_WRITE_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract numeric portion (e.g., "102" from "ERR_102_ROOT_INVALID")
	numStr := code[4:7]
	if len(numStr) < 1 {
		return CategoryInternal
	}

	switch numStr[0] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
// Configuration errors abort the run; IO and validation errors are
// per-entry warnings; everything else is an error.
func severityFromCode(code string) Severity {
	switch categoryFromCode(code) {
	case CategoryConfig:
		return SeverityFatal
	case CategoryIO, CategoryValidation:
		return SeverityWarning
	default:
		return SeverityError
	}
}
