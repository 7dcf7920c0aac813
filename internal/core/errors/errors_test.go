package errors

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_Error(t *testing.T) {
	assert.Equal(t, "[FILE_NOT_FOUND] the file 'a.c' does not exist",
		New(CodeFileNotFound, "the file 'a.c' does not exist").Error())

	wrapped := Wrap(errors.New("tree-sitter returned nil"), CodeParseFailure, "failed to parse")
	assert.Equal(t, "[PARSE_FAILURE] failed to parse: tree-sitter returned nil", wrapped.Error())

	withCtx := AddContext(AddContext(New(CodeSourceRead, "line out of range"), CtxPath, "a.c"), CtxLine, 12)
	assert.Equal(t, "[SOURCE_READ] line out of range (line=12, path=a.c)", withCtx.Error())
}

func TestIsCode(t *testing.T) {
	err := New(CodeTokenDecode, "bad literal")
	assert.True(t, IsCode(err, CodeTokenDecode))
	assert.False(t, IsCode(err, CodeSourceRead))

	outer := fmt.Errorf("outer: %w", New(CodeSourceRead, "line out of range"))
	assert.True(t, IsCode(outer, CodeSourceRead), "fmt wrapping is transparent")
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeTokenDecode, CodeOf(fmt.Errorf("ctx: %w", New(CodeTokenDecode, "bad"))))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
}

func TestErrorCode_Local(t *testing.T) {
	assert.True(t, CodeTokenDecode.Local())
	assert.True(t, CodeSourceRead.Local())
	assert.False(t, CodeFileNotFound.Local())
	assert.False(t, CodeParseFailure.Local())
	assert.False(t, CodeInternal.Local())
}

func TestAddContext(t *testing.T) {
	err := AddContext(New(CodeSourceRead, "line out of range"), CtxLine, 12)
	var de *DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 12, de.Context[CtxLine])

	foreign := AddContext(errors.New("boom"), CtxPath, "x.c")
	assert.True(t, IsCode(foreign, CodeInternal), "foreign errors are wrapped as internal")
	assert.ErrorContains(t, foreign, "boom")
}

func TestUserMessage(t *testing.T) {
	err := Wrap(errors.New("permission denied"), CodeParseFailure, "failed to read a.c")
	err = AddContext(err, CtxPath, "a.c")
	assert.Equal(t, "failed to read a.c: permission denied", UserMessage(err))

	nested := Wrap(New(CodeValidationError, "output.format is invalid"), CodeValidationError, "invalid configuration 'c.toml'")
	assert.Equal(t, "invalid configuration 'c.toml': output.format is invalid", UserMessage(nested))

	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
	assert.Equal(t, "", UserMessage(nil))
}

func TestDomainError_LogValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	err := AddContext(New(CodeTokenDecode, "not an integer"), CtxToken, "0x1F")
	logger.Info("skipped", "error", err)

	out := buf.String()
	assert.Contains(t, out, "error.code=TOKEN_DECODE")
	assert.Contains(t, out, `error.message="not an integer"`)
	assert.Contains(t, out, "error.token=0x1F")
}
