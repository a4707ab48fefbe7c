package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecatError_Unwrap_PreservesOriginalError(t *testing.T) {
	// Given: an original error
	originalErr := errors.New("original error")

	// When: wrapping with CodecatError
	ccErr := New(ErrCodeFileUnreadable, "cannot read: test.txt", originalErr)

	// Then: unwrapping returns original error
	require.NotNil(t, ccErr)
	assert.Equal(t, originalErr, errors.Unwrap(ccErr))
	assert.True(t, errors.Is(ccErr, originalErr))
}

func TestCodecatError_Error_ReturnsFormattedMessage(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		message  string
		expected string
	}{
		{
			name:     "config error",
			code:     ErrCodeConfigInvalid,
			message:  "config file invalid",
			expected: "[ERR_101_CONFIG_INVALID] config file invalid",
		},
		{
			name:     "file error",
			code:     ErrCodeFileUnreadable,
			message:  "cannot read file.go",
			expected: "[ERR_202_FILE_UNREADABLE] cannot read file.go",
		},
		{
			name:     "pattern error",
			code:     ErrCodePatternInvalid,
			message:  "unterminated character class",
			expected: "[ERR_401_PATTERN_INVALID] unterminated character class",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, nil)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestCodecatError_Is_MatchesByCode(t *testing.T) {
	// Given: two errors with same code
	err1 := New(ErrCodeFileUnreadable, "file A unreadable", nil)
	err2 := New(ErrCodeFileUnreadable, "file B unreadable", nil)

	// Then: they match by code
	assert.True(t, errors.Is(err1, err2))
}

func TestCodecatError_Is_DoesNotMatchDifferentCodes(t *testing.T) {
	// Given: two errors with different codes
	err1 := New(ErrCodeFileUnreadable, "file unreadable", nil)
	err2 := New(ErrCodeConfigInvalid, "config invalid", nil)

	// Then: they don't match
	assert.False(t, errors.Is(err1, err2))
}

func TestCodecatError_WithDetails_AddsContext(t *testing.T) {
	// Given: a base error
	err := New(ErrCodeFileUnreadable, "file unreadable", nil)

	// When: adding details
	err = err.WithDetail("path", "/foo/bar.go")
	err = err.WithDetail("size", "1024")

	// Then: details are available
	assert.Equal(t, "/foo/bar.go", err.Details["path"])
	assert.Equal(t, "1024", err.Details["size"])
}

func TestCodecatError_WithSuggestion_AddsSuggestion(t *testing.T) {
	// Given: a locked-output error
	err := New(ErrCodeOutputLocked, "output is locked", nil)

	// When: adding suggestion
	err = err.WithSuggestion("Wait for the other run to finish")

	// Then: suggestion is available
	assert.Equal(t, "Wait for the other run to finish", err.Suggestion)
}

func TestCodecatError_CategoryFromCode(t *testing.T) {
	tests := []struct {
		code         string
		wantCategory Category
	}{
		{ErrCodeConfigInvalid, CategoryConfig},
		{ErrCodeRootInvalid, CategoryConfig},
		{ErrCodeOutputUnwritable, CategoryConfig},
		{ErrCodeDirUnreadable, CategoryIO},
		{ErrCodeFileUnreadable, CategoryIO},
		{ErrCodeFileBinary, CategoryIO},
		{ErrCodePatternInvalid, CategoryValidation},
		{ErrCodeInvalidInput, CategoryValidation},
		{ErrCodeInternal, CategoryInternal},
		{ErrCodeWriteFailed, CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "test message", nil)
			assert.Equal(t, tt.wantCategory, err.Category)
		})
	}
}

func TestCodecatError_SeverityFromCode(t *testing.T) {
	tests := []struct {
		code         string
		wantSeverity Severity
	}{
		{ErrCodeRootInvalid, SeverityFatal},
		{ErrCodeOutputUnwritable, SeverityFatal},
		{ErrCodeOutputLocked, SeverityFatal},
		{ErrCodeDirUnreadable, SeverityWarning},
		{ErrCodeFileBinary, SeverityWarning},
		{ErrCodePatternInvalid, SeverityWarning},
		{ErrCodeInternal, SeverityError},
		{ErrCodeWriteFailed, SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "test message", nil)
			assert.Equal(t, tt.wantSeverity, err.Severity)
		})
	}
}

func TestWrap_CreatesCodecatErrorFromError(t *testing.T) {
	// Given: a standard error
	originalErr := errors.New("something went wrong")

	// When: wrapping with a code
	ccErr := Wrap(ErrCodeInternal, originalErr)

	// Then: creates proper CodecatError
	require.NotNil(t, ccErr)
	assert.Equal(t, ErrCodeInternal, ccErr.Code)
	assert.Equal(t, "something went wrong", ccErr.Message)
	assert.Equal(t, originalErr, ccErr.Cause)
}

func TestWrap_NilErrorReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestConfigError_CreatesConfigCategoryError(t *testing.T) {
	err := ConfigError("invalid yaml syntax", nil)

	assert.Equal(t, CategoryConfig, err.Category)
	assert.Contains(t, err.Code, "CONFIG")
}

func TestIOError_CreatesIOCategoryError(t *testing.T) {
	err := IOError("cannot read file", nil)

	assert.Equal(t, CategoryIO, err.Category)
}

func TestValidationError_CreatesValidationCategoryError(t *testing.T) {
	err := ValidationError("path cannot be empty", nil)

	assert.Equal(t, CategoryValidation, err.Category)
}

func TestIsFatal_ChecksFatalSeverity(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "invalid root error",
			err:      New(ErrCodeRootInvalid, "not a directory", nil),
			expected: true,
		},
		{
			name:     "unwritable output error",
			err:      New(ErrCodeOutputUnwritable, "permission denied", nil),
			expected: true,
		},
		{
			name:     "per-entry warning",
			err:      New(ErrCodeFileUnreadable, "cannot read", nil),
			expected: false,
		},
		{
			name:     "standard error",
			err:      errors.New("standard error"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsFatal(tt.err))
		})
	}
}

func TestIsWarning_ChecksWarningSeverity(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "unreadable directory",
			err:      New(ErrCodeDirUnreadable, "permission denied", nil),
			expected: true,
		},
		{
			name:     "binary file",
			err:      New(ErrCodeFileBinary, "binary content", nil),
			expected: true,
		},
		{
			name:     "malformed pattern",
			err:      New(ErrCodePatternInvalid, "bad class", nil),
			expected: true,
		},
		{
			name:     "fatal config error",
			err:      New(ErrCodeRootInvalid, "not a directory", nil),
			expected: false,
		},
		{
			name:     "standard error",
			err:      errors.New("standard error"),
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsWarning(tt.err))
		})
	}
}
