// Package errors provides structured error handling for cnwallet.
// It defines the wallet session error taxonomy, exit codes, and helpers for
// adding context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess    = 0 // Successful execution
	ExitGeneral    = 1 // General/unknown error, I/O and engine failures
	ExitInput      = 2 // Invalid input or invalid session state
	ExitAuth       = 3 // Wrong wallet password
	ExitNotFound   = 4 // Resource not found
	ExitLocked     = 5 // Wallet file locked by another handle
	ExitContention = 6 // Another write-side operation is running
)

const codeGeneral = "GENERAL_ERROR"

// CNError is the structured error type for cnwallet.
type CNError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *CNError) Error() string {
	msg := e.Message

	// Include details in error message (sorted for deterministic output)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *CNError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for CNError.
func (e *CNError) Is(target error) bool {
	var t *CNError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Session taxonomy.
var (
	ErrAlreadyOpen = &CNError{
		Code:       "ALREADY_OPEN",
		Message:    "wallet is already open",
		Suggestion: "close the current wallet before opening another one",
		ExitCode:   ExitInput,
	}

	ErrNotOpen = &CNError{
		Code:     "NOT_OPEN",
		Message:  "wallet is not open",
		ExitCode: ExitInput,
	}

	ErrInvalidPassword = &CNError{
		Code:     "INVALID_PASSWORD",
		Message:  "invalid wallet password",
		ExitCode: ExitAuth,
	}

	ErrFileLocked = &CNError{
		Code:       "FILE_LOCKED",
		Message:    "wallet file is locked by another handle",
		Suggestion: "make sure no other cnwallet process is using this wallet",
		ExitCode:   ExitLocked,
	}

	ErrIO = &CNError{
		Code:     "IO_ERROR",
		Message:  "wallet file I/O failed",
		ExitCode: ExitGeneral,
	}

	ErrOperationInProgress = &CNError{
		Code:     "OPERATION_IN_PROGRESS",
		Message:  "another wallet operation is in progress",
		ExitCode: ExitContention,
	}

	ErrBackupInProgress = &CNError{
		Code:     "BACKUP_IN_PROGRESS",
		Message:  "a backup is already in progress",
		ExitCode: ExitContention,
	}

	ErrValidation = &CNError{
		Code:     "VALIDATION_ERROR",
		Message:  "invalid transaction request",
		ExitCode: ExitInput,
	}

	ErrEngine = &CNError{
		Code:     "ENGINE_ERROR",
		Message:  "wallet engine reported an error",
		ExitCode: ExitGeneral,
	}
)

// CLI and configuration errors.
var (
	ErrGeneral = &CNError{
		Code:     codeGeneral,
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &CNError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	ErrNotFound = &CNError{
		Code:     "NOT_FOUND",
		Message:  "resource not found",
		ExitCode: ExitNotFound,
	}

	ErrWalletNotFound = &CNError{
		Code:     "WALLET_NOT_FOUND",
		Message:  "wallet file not found",
		ExitCode: ExitNotFound,
	}

	ErrWalletExists = &CNError{
		Code:     "WALLET_EXISTS",
		Message:  "wallet file already exists",
		ExitCode: ExitInput,
	}

	ErrConfigInvalid = &CNError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}
)

// New creates a new CNError with the given code and message.
func New(code, message string) *CNError {
	return &CNError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// derive copies the CNError in err's chain, or describes a foreign error as
// a general one caused by err.
func derive(err error) *CNError {
	var se *CNError
	if errors.As(err, &se) {
		c := *se
		return &c
	}
	return &CNError{Code: codeGeneral, Message: err.Error(), Cause: err, ExitCode: ExitGeneral}
}

// Wrap prefixes err's message with a formatted context. The result keeps
// err's code and exit status and unwraps to err.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)

	var se *CNError
	if !errors.As(err, &se) {
		return &CNError{Code: codeGeneral, Message: msg, Cause: err, ExitCode: ExitGeneral}
	}
	e := *se
	e.Message = msg + ": " + se.Message
	e.Cause = err
	return &e
}

// WithCause returns a copy of the sentinel carrying cause as its underlying
// error. errors.Is matches both the sentinel and the cause.
func WithCause(sentinel *CNError, cause error) error {
	e := *sentinel
	e.Cause = cause
	return &e
}

// WithDetails attaches details to err, replacing any present.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}
	e := derive(err)
	e.Details = details
	return e
}

// WithSuggestion attaches a remedy hint to err.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	e := derive(err)
	e.Suggestion = suggestion
	return e
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var se *CNError
	if errors.As(err, &se) {
		return se.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var se *CNError
	if errors.As(err, &se) {
		return se.Code
	}
	return codeGeneral
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
