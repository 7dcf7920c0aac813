package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

type ErrorCode string

const (
	// Fatal: the run is aborted and reported once.
	CodeFileNotFound ErrorCode = "FILE_NOT_FOUND"
	CodeParseFailure ErrorCode = "PARSE_FAILURE"

	// Local: the affected node or diagnostic is skipped.
	CodeTokenDecode ErrorCode = "TOKEN_DECODE"
	CodeSourceRead  ErrorCode = "SOURCE_READ"

	CodeValidationError ErrorCode = "VALIDATION_ERROR"
	CodeNotSupported    ErrorCode = "NOT_SUPPORTED"
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// Local reports whether errors with this code only skip the node at hand.
func (c ErrorCode) Local() bool {
	return c == CodeTokenDecode || c == CodeSourceRead
}

const (
	CtxPath      = "path"
	CtxLine      = "line"
	CtxToken     = "token"
	CtxOperation = "operation"
	CtxRule      = "rule"
)

// DomainError carries a code for programmatic handling, a human message and
// optional key/value context for logs.
type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]any
}

func (e *DomainError) WithContext(key string, value any) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Error renders "[CODE] message: cause (k=v, ...)" with context keys sorted.
func (e *DomainError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if len(e.Context) > 0 {
		pairs := make([]string, 0, len(e.Context))
		for _, key := range e.contextKeys() {
			pairs = append(pairs, fmt.Sprintf("%s=%v", key, e.Context[key]))
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(pairs, ", "))
	}
	return b.String()
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// LogValue groups code, message, cause and context under one slog attribute.
func (e *DomainError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("code", string(e.Code)),
		slog.String("message", e.Message),
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("cause", e.Err.Error()))
	}
	for _, key := range e.contextKeys() {
		attrs = append(attrs, slog.Any(key, e.Context[key]))
	}
	return slog.GroupValue(attrs...)
}

func (e *DomainError) contextKeys() []string {
	keys := make([]string, 0, len(e.Context))
	for key := range e.Context {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func New(code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg}
}

func Wrap(err error, code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg, Err: err}
}

// AddContext attaches a key/value pair, wrapping foreign errors as internal.
func AddContext(err error, key string, value any) error {
	var de *DomainError
	if errors.As(err, &de) {
		de.WithContext(key, value)
		return de
	}
	return &DomainError{
		Code:    CodeInternal,
		Message: "wrapped error",
		Err:     err,
		Context: map[string]any{key: value},
	}
}

func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the first DomainError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// UserMessage renders err for the single "Error: ..." line printed by the CLI.
// Codes and context maps are for logs, so they are left out here.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var de *DomainError
	if !errors.As(err, &de) {
		return err.Error()
	}
	if de.Err != nil {
		return fmt.Sprintf("%s: %s", de.Message, UserMessage(de.Err))
	}
	return de.Message
}
