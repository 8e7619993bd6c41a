package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())

	err = Newf("formatted %s", "error")
	assert.NotNil(t, err)
	assert.Equal(t, "formatted error", err.Error())

	var appErr *ApplicationError
	assert.True(t, As(err, &appErr))
	assert.Equal(t, Unknown, appErr.Kind())
}

func TestWrapping(t *testing.T) {
	origErr := New("original error")
	wrappedErr := Wrap(origErr, "wrapped")
	assert.Equal(t, "wrapped: original error", wrappedErr.Error())
	assert.Equal(t, origErr, Unwrap(wrappedErr))

	wrappedFormatted := Wrapf(origErr, "formatted %s", "wrapper")
	assert.Equal(t, "formatted wrapper: original error", wrappedFormatted.Error())

	// Wrapping nil returns nil
	assert.Nil(t, Wrap(nil, "wrapper"))
	assert.Nil(t, Wrapf(nil, "formatted %s", "wrapper"))

	deepWrapped := Wrap(wrappedErr, "deeper")
	assert.Equal(t, "deeper: wrapped: original error", deepWrapped.Error())
	assert.True(t, Is(deepWrapped, origErr))
}

func TestFileError(t *testing.T) {
	fileErr := NewFileError("cannot move", "/root/a.txt", FileOperationFailed, nil)
	assert.Equal(t, "cannot move: /root/a.txt", fileErr.Error())
	assert.Equal(t, "/root/a.txt", fileErr.Path())
	assert.Equal(t, FileOperationFailed, fileErr.Kind())

	origErr := fmt.Errorf("permission denied")
	fileErr = NewFileError("cannot move", "/root/a.txt", FileOperationFailed, origErr)
	assert.Equal(t, "cannot move: /root/a.txt: permission denied", fileErr.Error())
	assert.Equal(t, origErr, Unwrap(fileErr))

	assert.Equal(t, "file not found", ErrFileNotFound.Error())
	assert.Equal(t, FileNotFound, ErrFileNotFound.Kind())

	notFound := NewFileError("file not found", "/missing", FileNotFound, nil)
	assert.True(t, IsFileNotFound(notFound))
	assert.False(t, IsFileNotFound(fileErr))

	collision := NewFileError("destination already exists", "/root/Docs/a.txt", DestinationExists, nil)
	assert.True(t, IsDestinationExists(collision))
	assert.False(t, IsDestinationExists(notFound))
}

func TestConfigError(t *testing.T) {
	configErr := NewConfigError("invalid value", "sort.batch_size", InvalidConfig, nil)
	assert.Equal(t, "invalid value: sort.batch_size", configErr.Error())
	assert.Equal(t, "sort.batch_size", configErr.Param())

	origErr := fmt.Errorf("must be positive")
	configErr = NewConfigError("invalid value", "sort.batch_size", InvalidConfig, origErr)
	assert.Equal(t, "invalid value: sort.batch_size: must be positive", configErr.Error())

	assert.True(t, IsInvalidConfig(configErr))
	assert.False(t, IsInvalidConfig(New("some other error")))
}

func TestToolError(t *testing.T) {
	toolErr := NewToolError("malformed tool arguments", "sort", MalformedToolArguments, errors.New("unexpected EOF"))
	assert.Equal(t, "malformed tool arguments: sort: unexpected EOF", toolErr.Error())
	assert.Equal(t, "sort", toolErr.ToolName())
	assert.True(t, IsMalformedToolArguments(toolErr))
	assert.False(t, IsUnknownTool(toolErr))

	unknown := NewToolError("unknown tool", "rename", UnknownTool, nil)
	assert.Equal(t, "unknown tool: rename", unknown.Error())
	assert.True(t, IsUnknownTool(unknown))
	assert.False(t, IsMalformedToolArguments(unknown))
}

func TestTransportError(t *testing.T) {
	err := NewTransportError("chat completion failed", 401, TransportFailed, errors.New("invalid api key"))
	assert.Equal(t, "chat completion failed: status=401: invalid api key", err.Error())
	assert.Equal(t, 401, err.Status())
	assert.True(t, IsTransportFailure(err))

	noStatus := NewTransportError("chat completion failed", 0, TransportFailed, errors.New("connection refused"))
	assert.Equal(t, "chat completion failed: connection refused", noStatus.Error())

	wrapped := fmt.Errorf("batch 2: %w", noStatus)
	assert.True(t, IsTransportFailure(wrapped))
	assert.False(t, IsTransportFailure(New("plain")))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Unknown, KindOf(errors.New("plain")))
	assert.Equal(t, ResponseInvalid, KindOf(NewTransportError("bad body", 200, ResponseInvalid, nil)))
	assert.Equal(t, UnknownTool, KindOf(fmt.Errorf("ctx: %w", NewToolError("unknown tool", "x", UnknownTool, nil))))
	assert.Equal(t, "malformed_tool_arguments", MalformedToolArguments.String())
}

func TestErrorChains(t *testing.T) {
	baseErr := errors.New("base error")
	fileErr := NewFileError("file error", "/path/to/file", FileNotFound, baseErr)
	toolErr := NewToolError("tool error", "sort", MalformedToolArguments, fileErr)

	assert.Equal(t, "tool error: sort: file error: /path/to/file: base error", toolErr.Error())
	assert.True(t, Is(toolErr, baseErr))
	assert.True(t, Is(toolErr, fileErr))

	var fe *FileError
	assert.True(t, As(toolErr, &fe))
	assert.Equal(t, "/path/to/file", fe.Path())

	assert.True(t, IsFileNotFound(toolErr))
	assert.True(t, IsMalformedToolArguments(toolErr))
}
