package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// project is a temporary working directory with a config file pointing at
// the test CSVs.
type project struct {
	dir    string
	config string
	out    string
}

func newProject(t *testing.T, extra string) *project {
	t.Helper()
	dir := t.TempDir()
	abs := func(name string) string {
		p, err := filepath.Abs(filepath.Join("testdata", name))
		require.NoError(t, err)
		return p
	}
	p := &project{
		dir:    dir,
		config: filepath.Join(dir, "qbcube.yaml"),
		out:    filepath.Join(dir, "out"),
	}
	yaml := fmt.Sprintf(`output_dir: %s
code_lists: true
inputs:
  population: %s
  county_enum: %s
  care_providers: %s
%s`, p.out, abs("population.csv"), abs("county-enum.csv"), abs("care-providers.csv"), extra)
	require.NoError(t, os.WriteFile(p.config, []byte(yaml), 0o644))
	return p
}

// run executes the root command with the project config.
func (p *project) run(args ...string) (stdout, stderr string, err error) {
	return execute(append([]string{"--config", p.config}, args...)...)
}

func execute(args ...string) (stdout, stderr string, err error) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// decodeResponse decodes a JSON CLI response. The success payload, or the
// error details of a failure, is unmarshalled into payload when non-nil.
func decodeResponse(t *testing.T, stdout string, payload any) Response {
	t.Helper()
	var raw struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *struct {
			Code    string          `json:"code"`
			Message string          `json:"message"`
			Details json.RawMessage `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &raw), stdout)

	resp := Response{Status: raw.Status}
	body := raw.Data
	if raw.Error != nil {
		resp.Error = &ResponseError{Code: raw.Error.Code, Message: raw.Error.Message}
		body = raw.Error.Details
	}
	if payload != nil && len(body) > 0 {
		require.NoError(t, json.Unmarshal(body, payload))
	}
	return resp
}
