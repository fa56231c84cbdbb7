package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(CodePDBDownloadFailed, "download failed")
	require.NotNil(t, err)
	assert.Equal(t, CodePDBDownloadFailed, err.Code)
	assert.Equal(t, "download failed", err.Message)
	assert.NotEmpty(t, err.Stack)
	assert.Equal(t, "[PDB_003] download failed", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(CodePDBDownloadFailed, "failed to download PDB file for %s", "1ABC")
	assert.Equal(t, "[PDB_003] failed to download PDB file for 1ABC", err.Error())
}

func TestError_WithDetail(t *testing.T) {
	err := New(CodeJobNotFound, "job not found").WithDetail("id=42")
	assert.Equal(t, "[JOB_001] job not found: id=42", err.Error())

	var nilErr *AppError
	assert.Nil(t, nilErr.WithDetail("x"))
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, CodeDatabaseError, "failed to save job")

	require.NotNil(t, err)
	assert.Equal(t, CodeDatabaseError, err.Code)
	assert.ErrorIs(t, err, cause)
}

func TestWrap_NilPassthrough(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeInternal, "should vanish"))
}

func TestWrap_PreservesCodeOnUnknown(t *testing.T) {
	inner := New(CodePrepProtonationFailed, "pdb2pqr exited 1")
	err := Wrap(inner, CodeUnknown, "pipeline aborted")
	assert.Equal(t, CodePrepProtonationFailed, err.Code)
}

func TestIsCode(t *testing.T) {
	inner := New(CodePrepInputNotFound, "no such file")
	wrapped := fmt.Errorf("stage failed: %w", inner)

	assert.True(t, IsCode(wrapped, CodePrepInputNotFound))
	assert.False(t, IsCode(wrapped, CodePrepConversionFailed))
	assert.False(t, IsCode(nil, CodePrepInputNotFound))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(New(CodeNotFound, "gone")))
	assert.True(t, IsNotFound(New(CodeJobNotFound, "gone")))
	assert.True(t, IsNotFound(New(CodePrepInputNotFound, "gone")))
	assert.False(t, IsNotFound(New(CodeInternal, "boom")))
	assert.False(t, IsNotFound(stderrors.New("plain")))
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(New(CodePDBInvalidID, "bad id")))
	assert.True(t, IsValidation(InvalidParam("bad param")))
	assert.False(t, IsValidation(New(CodeInternal, "boom")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, CodeCacheError, GetCode(New(CodeCacheError, "miss")))

	wrapped := fmt.Errorf("outer: %w", New(CodeTimeout, "slow"))
	assert.Equal(t, CodeTimeout, GetCode(wrapped))
}
