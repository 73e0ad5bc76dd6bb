package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrSyntax                 = errors.New("syntax error")
	ErrUnknownUnit            = errors.New("unknown unit")
	ErrIncompatibleDimensions = errors.New("incompatible dimensions")
	ErrMalformedValue         = errors.New("malformed value")
	ErrUnitDatabase           = errors.New("unit database error")
	ErrInvalidConfig          = errors.New("invalid config")
)

// ErrorKind 错误分类
// 调用方通过 IsKind 判断错误类型，无需依赖具体的引擎实现
type ErrorKind string

const (
	KindSyntax                 ErrorKind = "syntax"
	KindUnknownUnit            ErrorKind = "unknown_unit"
	KindIncompatibleDimensions ErrorKind = "incompatible_dimensions"
	KindMalformedValue         ErrorKind = "malformed_value"
	KindUnitDatabase           ErrorKind = "unit_database"
	KindInvalidConfig          ErrorKind = "invalid_config"
)

var kindSentinels = map[ErrorKind]error{
	KindSyntax:                 ErrSyntax,
	KindUnknownUnit:            ErrUnknownUnit,
	KindIncompatibleDimensions: ErrIncompatibleDimensions,
	KindMalformedValue:         ErrMalformedValue,
	KindUnitDatabase:           ErrUnitDatabase,
	KindInvalidConfig:          ErrInvalidConfig,
}

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op    string
	Kind  ErrorKind
	Input string // Optional: offending unit string, value or path
	Err   error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Input != "" {
		base += fmt.Sprintf(" (input=%q)", e.Input)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is match the sentinel of the error's kind.
func (e *OpError) Is(target error) bool {
	if e == nil {
		return false
	}
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// NewError is a shorthand for building an *OpError.
func NewError(op string, kind ErrorKind, input string, err error) *OpError {
	return &OpError{Op: op, Kind: kind, Input: input, Err: err}
}

// IsKind helps callers classify errors without depending on adapter packages.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// KindOf returns the kind of the first *OpError in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return ""
}
