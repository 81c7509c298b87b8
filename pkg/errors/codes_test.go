package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "DS_001", CodeDatasetUnsupported.String())
	assert.Equal(t, "DATA_001", CodeDatabaseError.String())
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "unsupported dataset kind", DefaultMessageForCode(CodeDatasetUnsupported))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("NOPE_999")))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(CodePropertyNotMapped))
	assert.True(t, IsClientError(CodeFormatUnsupported))
	assert.True(t, IsClientError(ErrCodeInvalidMolecule))
	assert.False(t, IsClientError(CodeDatabaseError))
	assert.False(t, IsClientError(CodeInternal))
}

func TestIsServerError(t *testing.T) {
	assert.True(t, IsServerError(CodeDatabaseError))
	assert.True(t, IsServerError(CodeConversionFailed))
	assert.False(t, IsServerError(CodePropertyNotMapped))
	assert.False(t, IsServerError(CodeOK))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "DS", ModuleForCode(CodePropertyNotMapped))
	assert.Equal(t, "DATA", ModuleForCode(CodeParseError))
	assert.Equal(t, "COMMON", ModuleForCode(CodeInternal))
	assert.Equal(t, "UNKNOWN", ModuleForCode(ErrorCode("")))
}
