package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_PreservesCodeAndChain(t *testing.T) {
	base := New(CodeDatabaseError, "connection lost")

	wrapped := Wrap(base, "failed to list datasets")

	assert.Equal(t, CodeDatabaseError, GetCode(wrapped))
	assert.Equal(t, "failed to list datasets: connection lost", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrap_PlainErrorGetsInternalCode(t *testing.T) {
	cause := stderrors.New("boom")

	wrapped := Wrap(cause, "something failed")

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, cause))
}

func TestWrap_NilIsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))
	assert.Nil(t, Wrapf(nil, "ignored %d", 1))
}

func TestWrapf_FormatsMessage(t *testing.T) {
	wrapped := Wrapf(stderrors.New("gone"), "file for dataset %s is no longer available", "abc")

	assert.Equal(t, "file for dataset abc is no longer available: gone", wrapped.Error())
}

func TestGetCode_UnknownForPlainErrors(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, CodeConfigInvalid, ConfigInvalid("x").Code)
	assert.Equal(t, CodeDatabaseError, DatabaseError("x").Code)
	assert.Equal(t, CodeInvalidInput, InvalidInput("x").Code)
	assert.Equal(t, CodeInternalError, InternalError("x").Code)

	nf := NotFound("dataset")
	assert.Equal(t, CodeNotFound, nf.Code)
	assert.Equal(t, "dataset not found", nf.Message)
}
