package engine

import (
	"errors"
	"fmt"
)

// Code is an engine-reported failure code.
type Code int

// Engine error codes.
const (
	CodeInternal Code = iota + 1
	CodeWrongPassword
	CodeAlreadyInitialized
	CodeNotInitialized
	CodeWrongAmount
	CodeZeroDestination
	CodeFeeTooSmall
	CodeMixinCountTooBig
	CodeBadAddress
	CodeBadPaymentID
	CodeTransactionTooBig
	CodeOperationCancelled
	CodeCorruptedWallet
)

var codeNames = map[Code]string{
	CodeInternal:           "internal wallet error",
	CodeWrongPassword:      "wrong password",
	CodeAlreadyInitialized: "wallet already initialized",
	CodeNotInitialized:     "wallet not initialized",
	CodeWrongAmount:        "wrong amount",
	CodeZeroDestination:    "no destinations",
	CodeFeeTooSmall:        "fee too small",
	CodeMixinCountTooBig:   "mixin count too big",
	CodeBadAddress:         "bad address",
	CodeBadPaymentID:       "bad payment id",
	CodeTransactionTooBig:  "transaction too big",
	CodeOperationCancelled: "operation cancelled",
	CodeCorruptedWallet:    "wallet file corrupted",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("engine error %d", int(c))
}

// IsValidation reports whether the code describes a malformed send request.
func (c Code) IsValidation() bool {
	switch c {
	case CodeWrongAmount, CodeZeroDestination, CodeFeeTooSmall, CodeMixinCountTooBig,
		CodeBadAddress, CodeBadPaymentID, CodeTransactionTooBig:
		return true
	default:
		return false
	}
}

// Error is an error reported by an engine.
type Error struct {
	Code Code
	Msg  string
}

// NewError creates an engine error with an optional message.
func NewError(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Code.String()
	}
	return e.Code.String() + ": " + e.Msg
}

// Is matches engine errors by code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel values for errors.Is comparisons.
var (
	ErrWrongPassword      = &Error{Code: CodeWrongPassword}
	ErrAlreadyInitialized = &Error{Code: CodeAlreadyInitialized}
	ErrNotInitialized     = &Error{Code: CodeNotInitialized}
	ErrOperationCancelled = &Error{Code: CodeOperationCancelled}
)

// CodeOf extracts the engine code from err, or CodeInternal when err is not
// an engine error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
