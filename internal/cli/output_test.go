package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success(map[string]int{"observations": 3}))

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, map[string]any{"observations": 3.0}, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	details := map[string]string{"file": "health_care.ttl", "line": "42"}
	require.NoError(t, formatter.Error(ErrCodeParseFailed, "cannot load health_care.ttl", details))

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E008", resp.Error.Code)
	assert.Equal(t, "cannot load health_care.ttl", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextError(t *testing.T) {
	tests := []struct {
		name        string
		verbose     bool
		wantDetails bool
	}{
		{"quiet", false, false},
		{"verbose", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "text", Writer: buf, Verbose: tt.verbose}

			require.NoError(t, formatter.Error(ErrCodeBuildFailed, "build failed", map[string]string{"cube": "population"}))
			assert.Contains(t, buf.String(), "Error [E006]: build failed\n")
			if tt.wantDetails {
				assert.Contains(t, buf.String(), "Details:")
			} else {
				assert.NotContains(t, buf.String(), "Details:")
			}
		})
	}
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}
	formatter.VerboseLog("Building %d cube(s)", 2)
	assert.Empty(t, out.String(), "diagnostics never go to stdout")
	assert.Equal(t, "Building 2 cube(s)\n", errOut.String())

	quiet := &OutputFormatter{Format: "text", Writer: out}
	quiet.VerboseLog("Building %d cube(s)", 2)
	assert.Empty(t, out.String())

	noErrWriter := &OutputFormatter{Format: "text", Writer: out, Verbose: true}
	assert.Same(t, out, noErrWriter.diagnostics())
}

func TestExitError(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "E007: cannot write metrics", cause)
	assert.Equal(t, "E007: cannot write metrics: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, ExitCommandError, ExitCodeOf(err))
	assert.Equal(t, ExitFailure, ExitCodeOf(NewExitError(ExitFailure, "rules violated")))
	assert.Equal(t, ExitFailure, ExitCodeOf(errors.New("plain")))
}

func TestCommandError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := commandError(formatter, ErrCodeStore, "cannot open store cubes.db", errors.New("locked"))
	assert.Equal(t, "Error [E009]: cannot open store cubes.db: locked\n", buf.String())
	assert.Equal(t, ExitCommandError, ExitCodeOf(err))
	assert.Equal(t, "E009: cannot open store cubes.db: locked", err.Error())
}
