package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is an error thrown when an upload session is not found
var ErrSessionNotFound = errors.New("upload session not found")

// ErrSessionExists is an error thrown when an upload session already exists
var ErrSessionExists = errors.New("upload session already exists")

// ErrAccountNotFound is an error thrown when no storage account is configured
var ErrAccountNotFound = errors.New("storage account not found")

// ErrFileNotFound is an error thrown when a file record is not found
var ErrFileNotFound = errors.New("file not found")

// ErrMultipartUnsupported is an error thrown when the provider cannot do multipart uploads
var ErrMultipartUnsupported = errors.New("provider does not support multipart upload")

// ErrFileTooLarge is an error thrown when no feasible part plan exists for the size
var ErrFileTooLarge = errors.New("file too large for provider limits")

// ErrInvalidSize is an error thrown when the declared size is not positive
var ErrInvalidSize = errors.New("invalid file size")

// ErrInvalidFileType is an error thrown when the declared content type is invalid
var ErrInvalidFileType = errors.New("invalid file type")

// ErrInvalidPartNumber is an error thrown when a part number is outside [1, totalParts]
var ErrInvalidPartNumber = errors.New("part number out of range")

// ErrInvalidPartSize is an error thrown when a part's content length is invalid
var ErrInvalidPartSize = errors.New("invalid part content length")

// ErrInvalidETag is an error thrown when a part is reported without an eTag
var ErrInvalidETag = errors.New("invalid eTag")

// ErrInvalidSessionState is an error thrown when an operation is not legal in the session's current status
var ErrInvalidSessionState = errors.New("invalid session state")

// ErrUploadIncomplete is an error thrown when finalize is requested before every part completed
var ErrUploadIncomplete = errors.New("upload incomplete")

// ErrInvalidCapabilities is an error thrown when a provider declares an inconsistent capability envelope
var ErrInvalidCapabilities = errors.New("invalid provider capabilities")

// ErrRangeUnsupported is an error thrown when a range read is requested from a provider without range support
var ErrRangeUnsupported = errors.New("provider does not support range requests")

// ProviderError wraps a backend failure with provider and operation context.
// The orchestrator never interprets the wrapped error beyond "this call did
// not succeed".
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps err with provider context.
func NewProviderError(provider, op string, err error) error {
	return &ProviderError{Provider: provider, Op: op, Err: err}
}

// ErrorCode is the stable caller-facing error code. Internal state never
// leaks into error payloads; callers only see a code and a message.
type ErrorCode string

const (
	CodeValidation ErrorCode = "validation_error"
	CodeNotFound   ErrorCode = "not_found"
	CodeProvider   ErrorCode = "provider_error"
	CodeInternal   ErrorCode = "internal_error"
)

// CodeOf maps an orchestrator error to its error code.
func CodeOf(err error) ErrorCode {
	var pErr *ProviderError
	switch {
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrFileNotFound):
		return CodeNotFound
	case errors.Is(err, ErrMultipartUnsupported),
		errors.Is(err, ErrFileTooLarge),
		errors.Is(err, ErrInvalidSize),
		errors.Is(err, ErrInvalidFileType),
		errors.Is(err, ErrInvalidPartNumber),
		errors.Is(err, ErrInvalidPartSize),
		errors.Is(err, ErrInvalidETag),
		errors.Is(err, ErrInvalidSessionState),
		errors.Is(err, ErrUploadIncomplete),
		errors.Is(err, ErrInvalidCapabilities),
		errors.Is(err, ErrRangeUnsupported):
		return CodeValidation
	case errors.As(err, &pErr):
		return CodeProvider
	}
	return CodeInternal
}
