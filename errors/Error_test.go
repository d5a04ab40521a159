package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewCustomError(t *testing.T) {
	err := New(ERR_NOT_FOUND, "resource not found")
	require.NotNil(t, err)
	require.Equal(t, ERR_NOT_FOUND, err.Code())
	require.Equal(t, "resource not found", err.Message())

	secondErr := New(ERR_INVALID_ARGUMENT, "[CheckBlock][%s] failed to connect input", "_test_string_", err)
	thirdErr := New(ERR_TX_DOUBLE_SPEND, "[CheckBlock][%s] failed to connect input", "_test_string_", secondErr)
	anotherErr := New(ERR_TX_DOUBLE_SPEND, "another double spend")
	fourthErr := New(ERR_SERVICE_ERROR, "older error: ", thirdErr)
	fifthErr := New(ERR_BLOCK_INVALID, "invalid tx double spend error", fourthErr)

	require.True(t, anotherErr.Is(thirdErr))
	require.True(t, fourthErr.Is(New(ERR_TX_DOUBLE_SPEND, "")))
	require.True(t, fourthErr.Is(ErrTxDoubleSpend))

	require.True(t, fourthErr.Is(err))
	require.True(t, fifthErr.Is(thirdErr))
	require.True(t, fifthErr.Is(err))

	require.False(t, anotherErr.Is(fourthErr))
	require.False(t, fifthErr.Is(ErrBlockNotFound))
}

func Test_FmtErrorCustomError(t *testing.T) {
	err := New(ERR_NOT_FOUND, "resource not found")

	fmtError := fmt.Errorf("error: %w", err)
	secondErr := New(ERR_INVALID_ARGUMENT, "[Push][%s] failed", "_test_string_", fmtError)

	// a foreign wrapper hides the code from *Error.Is
	require.False(t, secondErr.Is(err))

	// the stdlib walk still finds it
	require.True(t, errors.Is(secondErr, ErrNotFound))
}

func Test_ErrorIs(t *testing.T) {
	tests := []struct {
		code ERR
		msg  string
	}{
		{ERR_NOT_FOUND, "not found"},
		{ERR_BLOCK_INVALID, "invalid block error"},
		{ERR_TX_DOUBLE_SPEND, "double spend"},
		{ERR_TOKEN_EXISTS, "token exists"},
		{ERR_UNKNOWN, "unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			err := New(tt.code, tt.msg)
			assert.True(t, errors.Is(err, New(tt.code, "")))
		})
	}
}

func Test_ErrorWrapWithAdditionalContext(t *testing.T) {
	originalErr := New(ERR_TX_DOUBLE_SPEND, "original error")
	wrappedErr := New(ERR_BLOCK_INVALID, "Some more additional context", originalErr)

	require.True(t, errors.Is(wrappedErr, originalErr))
	require.True(t, strings.Contains(wrappedErr.Error(), "Some more additional context"))
	require.True(t, strings.Contains(wrappedErr.Error(), "TX_DOUBLE_SPEND"))
}

func Test_ErrorEquality(t *testing.T) {
	err1 := New(ERR_NOT_FOUND, "resource not found")
	err2 := New(ERR_NOT_FOUND, "invalid argument")
	require.True(t, err1.Is(err2))

	err2 = New(ERR_INVALID_ARGUMENT, "resource not found")
	require.False(t, err1.Is(err2))
}

func Test_InvalidCode(t *testing.T) {
	err := New(ERR(9999), "whatever")
	require.Equal(t, "invalid error code", err.Message())
	require.Equal(t, "ERR(9999)", ERR(9999).String())
}

func Test_NilError(t *testing.T) {
	var err *Error

	require.Equal(t, "<nil>", err.Error())
	require.Equal(t, ERR_UNKNOWN, err.Code())
	require.False(t, err.Is(ErrNotFound))
	require.Nil(t, err.Unwrap())
}

func Test_ErrorAs(t *testing.T) {
	err := NewTokenExistsError("token %s exists", "ABC")

	var tErr *Error
	require.True(t, As(err, &tErr))
	require.Equal(t, ERR_TOKEN_EXISTS, tErr.Code())
	require.Equal(t, "token ABC exists", tErr.Message())
}

func Test_SetGetData(t *testing.T) {
	err := New(ERR_STORAGE_ERROR, "push failed")
	err.SetData("height", 12)
	require.Equal(t, 12, err.GetData("height"))
	require.Contains(t, err.Error(), "Data:")
}

func Test_TxRejectedErr(t *testing.T) {
	hash := chainhash.DoubleHashH([]byte("tx"))
	cause := NewTokenExistsError("token ABC exists")

	err := NewTxRejectedErr(hash, 3, cause)
	require.True(t, errors.Is(err, ErrTokenExists))
	require.Equal(t, ERR_TOKEN_EXISTS, CodeOf(err))

	got, ok := RejectedTx(err)
	require.True(t, ok)
	require.Equal(t, hash, got)

	_, ok = RejectedTx(cause)
	require.False(t, ok)
}

func Test_CodeOf(t *testing.T) {
	require.Equal(t, ERR_UNKNOWN, CodeOf(nil))
	require.Equal(t, ERR_ERROR, CodeOf(errors.New("plain")))
	require.Equal(t, ERR_INPUT_NOT_FOUND, CodeOf(NewInputNotFoundError("missing")))
	require.Equal(t, ERR_BLOCK_INVALID, CodeOf(fmt.Errorf("wrapped: %w", ErrBlockInvalid)))
}

func Test_IsTransient(t *testing.T) {
	require.True(t, IsTransient(NewInputNotFoundError("missing parent")))
	require.False(t, IsTransient(NewTxDoubleSpendError("spent")))
	require.False(t, IsTransient(nil))
}

func Test_IsConsensusRejection(t *testing.T) {
	require.True(t, IsConsensusRejection(ErrMerkleMismatch))
	require.True(t, IsConsensusRejection(ErrCandidateExists))
	require.False(t, IsConsensusRejection(ErrStorageLocked))
	require.False(t, IsConsensusRejection(ErrPoolFilled))
}

func Test_Join(t *testing.T) {
	require.Nil(t, Join(nil, nil))
	require.Equal(t, "a, b", Join(errors.New("a"), nil, errors.New("b")).Error())
}
