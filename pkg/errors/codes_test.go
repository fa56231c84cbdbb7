package errors

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "COMMON_001", CodeInternal.String())
	assert.Equal(t, "PREP_002", CodePrepProtonationFailed.String())
}

func TestHTTPStatusForCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{CodeInternal, 500},
		{CodeInvalidParam, 400},
		{CodeNotFound, 404},
		{CodeConflict, 409},
		{CodeValidation, 422},
		{CodePDBInvalidID, 400},
		{CodePDBDownloadFailed, 502},
		{CodePrepInputNotFound, 404},
		{CodeJobPublishFailed, 503},
		{ErrorCode("UNKNOWN"), 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, HTTPStatusForCode(tt.code), "code %s", tt.code)
	}
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "internal server error", DefaultMessageForCode(CodeInternal))
	assert.Equal(t, "protonation failed", DefaultMessageForCode(CodePrepProtonationFailed))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("NOPE")))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "COMMON", ModuleForCode(CodeInternal))
	assert.Equal(t, "PDB", ModuleForCode(CodePDBDownloadFailed))
	assert.Equal(t, "PREP", ModuleForCode(CodePrepConversionFailed))
	assert.Equal(t, "JOB", ModuleForCode(CodeJobNotFound))
	assert.Equal(t, "UNKNOWN", ModuleForCode(ErrorCode("")))
}

func TestIsClientServerError(t *testing.T) {
	assert.True(t, IsClientError(CodeInvalidParam))
	assert.False(t, IsClientError(CodeInternal))
	assert.True(t, IsServerError(CodeInternal))
	assert.False(t, IsServerError(CodePDBInvalidID))
}

func TestErrorCodeFormat_Convention(t *testing.T) {
	re := regexp.MustCompile(`^[A-Z]+_\d{3}$`)
	for code := range ErrorCodeHTTPStatus {
		assert.Regexp(t, re, string(code))
	}
}

func TestErrorCodeMappings_Completeness(t *testing.T) {
	for code := range ErrorCodeHTTPStatus {
		_, ok := ErrorCodeMessage[code]
		assert.True(t, ok, "missing default message for %s", code)
	}
	for code := range ErrorCodeMessage {
		_, ok := ErrorCodeHTTPStatus[code]
		assert.True(t, ok, "missing HTTP status for %s", code)
	}
}
