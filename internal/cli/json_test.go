package cli

import (
	"bytes"
	stdjson "encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/rtop/internal/errors"
)

func decodeEnvelope(t *testing.T, buf *bytes.Buffer) JSONEnvelope {
	t.Helper()
	var env JSONEnvelope
	require.NoError(t, stdjson.Unmarshal(buf.Bytes(), &env))
	return env
}

func TestMachineMode_DefaultValue(t *testing.T) {
	oldMode := machineMode
	defer func() { machineMode = oldMode }()

	machineMode = false
	assert.False(t, MachineMode())

	machineMode = true
	assert.True(t, MachineMode())
}

func TestWriteJSONSuccess(t *testing.T) {
	var buf bytes.Buffer

	err := WriteJSONSuccess(&buf, map[string]string{"key": "value"})
	require.NoError(t, err)

	env := decodeEnvelope(t, &buf)
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
	dataMap, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "value", dataMap["key"])
	assert.Contains(t, buf.String(), "\n  \"data\"", "output is indented")
}

func TestWriteJSONSuccess_NilData(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteJSONSuccess(&buf, nil))

	assert.NotContains(t, buf.String(), "data")
	assert.NotContains(t, buf.String(), "error")
}

func TestWriteJSONFromError_StructuredError(t *testing.T) {
	var buf bytes.Buffer

	err := errors.New(errors.ErrProbe, "Poll failed", "Check the endpoint")
	require.NoError(t, WriteJSONFromError(&buf, err))

	env := decodeEnvelope(t, &buf)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeProbeFailed, env.Error.Code)
	assert.Equal(t, "Poll failed", env.Error.Message)
	assert.Equal(t, "Check the endpoint", env.Error.Suggestion)
}

func TestErrorToJSON_NilReturnsNil(t *testing.T) {
	assert.Nil(t, ErrorToJSON(nil))
}

func TestErrorToJSON_GenericError(t *testing.T) {
	got := ErrorToJSON(fmt.Errorf("boom"))

	assert.Equal(t, ErrCodeUnknown, got.Code)
	assert.Equal(t, "boom", got.Message)
}

func TestErrorToJSON_InternalCodes(t *testing.T) {
	tests := []struct {
		code    string
		message string
		want    string
	}{
		{errors.ErrConfig, "Config file not found", ErrCodeConfigNotFound},
		{errors.ErrConfig, "No sources configured", ErrCodeConfigNotFound},
		{errors.ErrConfig, "Poll interval 1ms is too short", ErrCodeConfigInvalid},
		{errors.ErrProbe, "HTTP 500", ErrCodeProbeFailed},
		{errors.ErrDecode, "Bad payload", ErrCodeDecodeFailed},
		{errors.ErrSSH, "Connection refused", ErrCodeSSHFailed},
		{errors.ErrWiring, "Dashboard stopped", ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.code+"/"+tt.message, func(t *testing.T) {
			got := ErrorToJSON(errors.New(tt.code, tt.message, ""))
			assert.Equal(t, tt.want, got.Code)
		})
	}
}
