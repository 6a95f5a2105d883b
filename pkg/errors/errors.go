package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCanceled     ErrorCode = "CANCELED"

	// Configuration errors
	ErrConfigLoad     ErrorCode = "CONFIG_LOAD"
	ErrConfigParse    ErrorCode = "CONFIG_PARSE"
	ErrInvalidTarget  ErrorCode = "INVALID_TARGET"
	ErrAPIKeyMissing  ErrorCode = "API_KEY_MISSING"
	ErrAPIKeySpaces   ErrorCode = "API_KEY_WHITESPACE"
	ErrAPIKeyTooShort ErrorCode = "API_KEY_SHORT"

	// Environment errors
	ErrEnvDetect ErrorCode = "ENV_DETECT"

	// Fetch errors
	ErrDownload       ErrorCode = "DOWNLOAD"
	ErrRepoClone      ErrorCode = "REPO_CLONE"
	ErrRepoPull       ErrorCode = "REPO_PULL"
	ErrCommand        ErrorCode = "COMMAND"
	ErrExtract        ErrorCode = "EXTRACT"
	ErrExtensionFetch ErrorCode = "EXTENSION_FETCH"

	// FileSystem errors
	ErrFileNotFound  ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileWrite     ErrorCode = "FILE_WRITE"
	ErrCleanup       ErrorCode = "CLEANUP"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
	ErrStateRead     ErrorCode = "STATE_READ"
	ErrStateWrite    ErrorCode = "STATE_WRITE"
)

// Category groups error codes by how the installer reacts to them.
type Category string

const (
	CategoryUnknown       Category = "unknown"
	CategoryConfiguration Category = "configuration"
	CategoryEnvironment   Category = "environment"
	CategoryNetworkFetch  Category = "network_fetch"
	CategoryFilesystem    Category = "filesystem"
	CategoryCanceled      Category = "canceled"
)

var categories = map[ErrorCode]Category{
	ErrInvalidInput:   CategoryConfiguration,
	ErrConfigLoad:     CategoryConfiguration,
	ErrConfigParse:    CategoryConfiguration,
	ErrInvalidTarget:  CategoryConfiguration,
	ErrAPIKeyMissing:  CategoryConfiguration,
	ErrAPIKeySpaces:   CategoryConfiguration,
	ErrAPIKeyTooShort: CategoryConfiguration,

	ErrEnvDetect: CategoryEnvironment,

	ErrDownload:       CategoryNetworkFetch,
	ErrRepoClone:      CategoryNetworkFetch,
	ErrRepoPull:       CategoryNetworkFetch,
	ErrCommand:        CategoryNetworkFetch,
	ErrExtract:        CategoryNetworkFetch,
	ErrExtensionFetch: CategoryNetworkFetch,

	ErrFileNotFound:  CategoryFilesystem,
	ErrFileAccess:    CategoryFilesystem,
	ErrFileWrite:     CategoryFilesystem,
	ErrCleanup:       CategoryFilesystem,
	ErrSymlinkCreate: CategoryFilesystem,
	ErrDirCreate:     CategoryFilesystem,
	ErrStateRead:     CategoryFilesystem,
	ErrStateWrite:    CategoryFilesystem,

	ErrCanceled: CategoryCanceled,
}

// WebupError represents a structured error with code and details
type WebupError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *WebupError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *WebupError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *WebupError) Is(target error) bool {
	var targetErr *WebupError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// Category returns the category of the error code
func (e *WebupError) Category() Category {
	return CategoryOf(e.Code)
}

// New creates a new WebupError with the given code and message
func New(code ErrorCode, message string) *WebupError {
	return &WebupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new WebupError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *WebupError {
	return &WebupError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a WebupError
func Wrap(err error, code ErrorCode, message string) *WebupError {
	if err == nil {
		return nil
	}
	return &WebupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *WebupError {
	if err == nil {
		return nil
	}
	return &WebupError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *WebupError) WithDetail(key string, value interface{}) *WebupError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var webupErr *WebupError
	if errors.As(err, &webupErr) {
		return webupErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a WebupError
func GetErrorCode(err error) ErrorCode {
	var webupErr *WebupError
	if errors.As(err, &webupErr) {
		return webupErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a WebupError
func GetErrorDetails(err error) map[string]interface{} {
	var webupErr *WebupError
	if errors.As(err, &webupErr) {
		return webupErr.Details
	}
	return nil
}

// CategoryOf maps a code to its category
func CategoryOf(code ErrorCode) Category {
	if c, ok := categories[code]; ok {
		return c
	}
	return CategoryUnknown
}

// GetCategory returns the category of the outermost WebupError in err's chain.
// Context cancellation is reported as CategoryCanceled even when unwrapped.
func GetCategory(err error) Category {
	if err == nil {
		return CategoryUnknown
	}
	var webupErr *WebupError
	if errors.As(err, &webupErr) {
		return webupErr.Category()
	}
	if IsCanceled(err) {
		return CategoryCanceled
	}
	return CategoryUnknown
}
