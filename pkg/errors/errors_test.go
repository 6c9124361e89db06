package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cnerr "github.com/vigcoin/cryptonotewallet/pkg/errors"
)

var (
	errInner = errors.New("inner")
	errPlain = errors.New("plain error")
)

func TestExitCodes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"success", nil, cnerr.ExitSuccess},
		{"already open", cnerr.ErrAlreadyOpen, cnerr.ExitInput},
		{"not open", cnerr.ErrNotOpen, cnerr.ExitInput},
		{"invalid password", cnerr.ErrInvalidPassword, cnerr.ExitAuth},
		{"file locked", cnerr.ErrFileLocked, cnerr.ExitLocked},
		{"io", cnerr.ErrIO, cnerr.ExitGeneral},
		{"operation in progress", cnerr.ErrOperationInProgress, cnerr.ExitContention},
		{"backup in progress", cnerr.ErrBackupInProgress, cnerr.ExitContention},
		{"validation", cnerr.ErrValidation, cnerr.ExitInput},
		{"engine", cnerr.ErrEngine, cnerr.ExitGeneral},
		{"plain error", errPlain, cnerr.ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, cnerr.ExitCode(tt.err))
		})
	}
}

func TestWrapPreservesIdentity(t *testing.T) {
	t.Parallel()
	sentinels := []*cnerr.CNError{
		cnerr.ErrAlreadyOpen,
		cnerr.ErrNotOpen,
		cnerr.ErrInvalidPassword,
		cnerr.ErrFileLocked,
		cnerr.ErrIO,
		cnerr.ErrOperationInProgress,
		cnerr.ErrBackupInProgress,
		cnerr.ErrValidation,
		cnerr.ErrEngine,
	}

	for _, s := range sentinels {
		wrapped := cnerr.Wrap(s, "saving wallet")
		require.ErrorIs(t, wrapped, s, s.Code)
		assert.Equal(t, s.ExitCode, cnerr.ExitCode(wrapped))
		assert.Equal(t, s.Code, cnerr.Code(wrapped))
	}
}

func TestTaxonomyCodesAreDistinct(t *testing.T) {
	t.Parallel()
	assert.NotErrorIs(t, cnerr.ErrBackupInProgress, cnerr.ErrOperationInProgress)
	assert.NotErrorIs(t, cnerr.ErrNotOpen, cnerr.ErrAlreadyOpen)
	assert.NotErrorIs(t, cnerr.ErrIO, cnerr.ErrFileLocked)
}

func TestWithCause(t *testing.T) {
	t.Parallel()
	err := cnerr.WithCause(cnerr.ErrIO, errInner)

	require.ErrorIs(t, err, cnerr.ErrIO)
	require.ErrorIs(t, err, errInner)
	assert.Equal(t, "wallet file I/O failed: inner", err.Error())

	// The sentinel itself is left untouched.
	assert.NoError(t, cnerr.ErrIO.Cause)
}

func TestWithDetails(t *testing.T) {
	t.Parallel()
	details := map[string]string{"engine_code": "4"}
	err := cnerr.WithDetails(cnerr.ErrEngine, details)

	var se *cnerr.CNError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, details, se.Details)
	assert.ErrorIs(t, err, cnerr.ErrEngine)
}

func TestWithSuggestion(t *testing.T) {
	t.Parallel()
	err := cnerr.WithSuggestion(cnerr.ErrNotOpen, "open the wallet first")

	var se *cnerr.CNError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "open the wallet first", se.Suggestion)
}

func TestWithSuggestion_PlainError(t *testing.T) {
	t.Parallel()
	err := cnerr.WithSuggestion(errPlain, "retry")

	var se *cnerr.CNError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "GENERAL_ERROR", se.Code)
	assert.ErrorIs(t, err, errPlain)
}

func TestNilHelpers(t *testing.T) {
	t.Parallel()
	require.NoError(t, cnerr.Wrap(nil, "x"))
	require.NoError(t, cnerr.WithDetails(nil, nil))
	require.NoError(t, cnerr.WithSuggestion(nil, "x"))
}

func TestNew(t *testing.T) {
	t.Parallel()
	err := cnerr.New("CUSTOM_ERROR", "custom error message")
	assert.Equal(t, "custom error message", err.Error())
	assert.Equal(t, "CUSTOM_ERROR", cnerr.Code(err))
}

func TestCNError_Error(t *testing.T) {
	t.Parallel()

	t.Run("with details sorted", func(t *testing.T) {
		t.Parallel()
		err := &cnerr.CNError{
			Code:    "TEST",
			Message: "failed",
			Details: map[string]string{"beta": "2", "alpha": "1"},
		}
		assert.Equal(t, "failed (alpha: 1) (beta: 2)", err.Error())
	})

	t.Run("with details and cause", func(t *testing.T) {
		t.Parallel()
		err := &cnerr.CNError{
			Code:    "TEST",
			Message: "outer",
			Details: map[string]string{"key": "val"},
			Cause:   errInner,
		}
		assert.Equal(t, "outer (key: val): inner", err.Error())
	})
}
