package sourcecode

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrUnverifiedContract      = errors.New("contract source code has not been verified")
	ErrMalformedSourceCode     = errors.New("malformed SourceCode in explorer response")
	ErrUnexpectedResponseShape = errors.New("unexpected explorer response shape")
	ErrTransport               = errors.New("explorer HTTP request failed")
	ErrNoHttpResponse          = errors.New("no HTTP response")
	ErrFileNotFound            = errors.New("source file not found")
	ErrMissingFileForOrdering  = errors.New("ordered filename has no matching source file")
	ErrInvalidAddress          = errors.New("invalid contract address")
)

const rawPreviewLength = 200

// MalformedSourceCodeError is returned when a JSON encoded SourceCode field can not be decoded.
// Raw holds the SourceCode string exactly as the explorer returned it.
type MalformedSourceCodeError struct {
	Raw string
	Err error
}

func (e *MalformedSourceCodeError) Error() string {
	return fmt.Sprintf("failed to parse Solidity source code from the explorer's SourceCode: %v. SourceCode: %s", e.Err, Preview(e.Raw))
}

func (e *MalformedSourceCodeError) Unwrap() error {
	return e.Err
}

func (e *MalformedSourceCodeError) Is(target error) bool {
	return target == ErrMalformedSourceCode
}

// TransportError is returned when the explorer answered, but not with something that can be normalized.
type TransportError struct {
	StatusCode int
	Status     string
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("HTTP status code %d, status text: %s", e.StatusCode, e.Status)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// Preview truncates payloads quoted in error messages.
func Preview(s string) string {
	if len(s) <= rawPreviewLength {
		return s
	}
	return s[:rawPreviewLength] + "..."
}

// Kind names the failure class of an error for metrics labels and API responses.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidAddress):
		return "invalid_address"
	case errors.Is(err, ErrUnverifiedContract):
		return "unverified"
	case errors.Is(err, ErrFileNotFound):
		return "file_not_found"
	case errors.Is(err, ErrMalformedSourceCode):
		return "malformed_source_code"
	case errors.Is(err, ErrUnexpectedResponseShape):
		return "unexpected_response_shape"
	case errors.Is(err, ErrNoHttpResponse):
		return "no_http_response"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrMissingFileForOrdering):
		return "missing_file_for_ordering"
	default:
		return "error"
	}
}
