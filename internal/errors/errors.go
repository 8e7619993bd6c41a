// Package errors provides standardized error handling for sortly.
// It defines the error kinds produced while talking to the model service,
// dispatching tool calls and moving files, plus helpers for creating,
// wrapping and classifying them.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// Common error constants for frequently occurring errors
var (
	ErrFileNotFound      = NewFileError("file not found", "", FileNotFound, nil)
	ErrDestinationExists = NewFileError("destination already exists", "", DestinationExists, nil)
	ErrInvalidPath       = NewFileError("invalid file path", "", InvalidPath, nil)
	ErrInvalidConfig     = NewConfigError("invalid configuration", "", InvalidConfig, nil)
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	FileNotFound
	FileAccessDenied
	InvalidPath
	DestinationExists
	FileOperationFailed
	// Config error kinds
	InvalidConfig
	ConfigNotSet
	// Model service error kinds
	TransportFailed
	ResponseInvalid
	// Tool dispatch error kinds
	MalformedToolArguments
	UnknownTool
)

// String returns a short name for the kind, used in log fields.
func (k ErrorKind) String() string {
	switch k {
	case FileNotFound:
		return "file_not_found"
	case FileAccessDenied:
		return "file_access_denied"
	case InvalidPath:
		return "invalid_path"
	case DestinationExists:
		return "destination_exists"
	case FileOperationFailed:
		return "file_operation_failed"
	case InvalidConfig:
		return "invalid_config"
	case ConfigNotSet:
		return "config_not_set"
	case TransportFailed:
		return "transport_failed"
	case ResponseInvalid:
		return "response_invalid"
	case MalformedToolArguments:
		return "malformed_tool_arguments"
	case UnknownTool:
		return "unknown_tool"
	default:
		return "unknown"
	}
}

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors related to file operations
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// ToolError represents a tool call the model asked for that could not be
// dispatched: an unregistered name or arguments that failed decoding or
// validation.
type ToolError struct {
	ApplicationError
	toolName string
}

// NewToolError creates a new tool error
func NewToolError(msg string, toolName string, kind ErrorKind, err error) *ToolError {
	return &ToolError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		toolName: toolName,
	}
}

// Error returns the tool error message
func (e *ToolError) Error() string {
	if e.toolName != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.toolName, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.toolName)
	}
	return e.ApplicationError.Error()
}

// ToolName returns the name of the tool the model tried to call
func (e *ToolError) ToolName() string {
	return e.toolName
}

// TransportError represents a failed round trip to the model service.
// Status is zero when no HTTP response was received.
type TransportError struct {
	ApplicationError
	status int
}

// NewTransportError creates a new transport error
func NewTransportError(msg string, status int, kind ErrorKind, err error) *TransportError {
	return &TransportError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		status: status,
	}
}

// Error returns the transport error message
func (e *TransportError) Error() string {
	if e.status != 0 {
		if e.err != nil {
			return fmt.Sprintf("%s: status=%d: %v", e.msg, e.status, e.err)
		}
		return fmt.Sprintf("%s: status=%d", e.msg, e.status)
	}
	return e.ApplicationError.Error()
}

// Status returns the HTTP status code, if any
func (e *TransportError) Status() int {
	return e.status
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// KindOf returns the kind of the first kinded error in err's chain.
func KindOf(err error) ErrorKind {
	var kinded interface{ Kind() ErrorKind }
	if errors.As(err, &kinded) {
		return kinded.Kind()
	}
	return Unknown
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileNotFound
	}
	return false
}

// IsDestinationExists checks if the error is a destination collision
func IsDestinationExists(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == DestinationExists
	}
	return false
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// IsTransportFailure reports whether err came from the model service round
// trip, including responses that could not be decoded.
func IsTransportFailure(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// IsMalformedToolArguments checks if the model's tool arguments were rejected
func IsMalformedToolArguments(err error) bool {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr.Kind() == MalformedToolArguments
	}
	return false
}

// IsUnknownTool checks if the model called a tool that is not registered
func IsUnknownTool(err error) bool {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr.Kind() == UnknownTool
	}
	return false
}
