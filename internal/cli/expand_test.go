package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qdiagx/internal/config"
)

const sampleEnglish = "NOTA demo\nHAD2\tAT\t1\nDIAG\tIF\t0M\tBY\t30\t90\n"

// writeInput writes an English file for prefix "c" over 3 bits and returns
// the prefix.
func writeInput(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	prefix := filepath.Join(dir, "c")
	require.NoError(t, os.WriteFile(prefix+"_3_eng.txt", []byte(content), 0644))
	return prefix
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func runExpandCmd(t *testing.T, opts *RootOptions, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewExpandCommand(opts)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestExpandCommand_Exact(t *testing.T) {
	prefix := writeInput(t, sampleEnglish)

	out, _, err := runExpandCmd(t, &RootOptions{Format: "text"}, prefix, "-n", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "c_X1")
	assert.Contains(t, out, "1 expanded into 2 lines")

	eng := readFile(t, prefix+"_X1_3_eng.txt")
	assert.Equal(t, "NOTA demo\nHAD2\tAT\t1\nPHAS\t60\tAT\t0\nROTZ\t-30\tAT\t0\n", eng)

	pic := readFile(t, prefix+"_X1_3_ZLpic.txt")
	assert.Equal(t, "NOTA demo\n|   H   |\nPh  |   |\nRz  |   |\n", pic)
}

func TestExpandCommand_JSON(t *testing.T) {
	prefix := writeInput(t, sampleEnglish)

	out, _, err := runExpandCmd(t, &RootOptions{Format: "json"}, prefix, "--bits", "3", "--verify")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			OutPrefix string `json:"out_prefix"`
			Style     string `json:"style"`
			Stats     struct {
				Lines   int `json:"lines"`
				Echoed  int `json:"echoed"`
				Diags   int `json:"diags"`
				Emitted int `json:"emitted"`
			} `json:"stats"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, prefix+"_X1", resp.Data.OutPrefix)
	assert.Equal(t, "exact", resp.Data.Style)
	assert.Equal(t, 3, resp.Data.Stats.Lines)
	assert.Equal(t, 2, resp.Data.Stats.Echoed)
	assert.Equal(t, 1, resp.Data.Stats.Diags)
	assert.Equal(t, 2, resp.Data.Stats.Emitted)
}

func TestExpandCommand_ConfigAndFlags(t *testing.T) {
	prefix := writeInput(t, sampleEnglish)
	cfg := config.DefaultConfig()
	cfg.NumBits = 3
	cfg.Style = "one_line"
	opts := &RootOptions{Format: "text", Config: cfg}

	_, _, err := runExpandCmd(t, opts, prefix)
	require.NoError(t, err)
	eng := readFile(t, prefix+"_X1_3_eng.txt")
	assert.Contains(t, eng, "DIAG\tIF\t0M\tBY\t30\t90\n")

	// the flag wins over the file
	_, _, err = runExpandCmd(t, opts, prefix+"_X1", "--style", "oracular", "--gbits", "2")
	require.NoError(t, err)
	eng = readFile(t, prefix+"_X2_3_eng.txt")
	assert.Contains(t, eng, "P1PH\t30\tAT\t2")
	assert.NotContains(t, eng, "DIAG")

	assert.Equal(t, "one_line", cfg.Style, "flags must not change the loaded config")
}

func TestExpandCommand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		args     []string
		wantCode int
		wantErr  string
	}{
		{
			name:     "register size missing",
			input:    sampleEnglish,
			args:     nil,
			wantCode: ExitCommandError,
			wantErr:  "register size not set",
		},
		{
			name:     "oracular without grounded bits",
			input:    sampleEnglish,
			args:     []string{"-n", "3", "--style", "oracular"},
			wantCode: ExitCommandError,
			wantErr:  "grounded bit",
		},
		{
			name:     "unknown style",
			input:    sampleEnglish,
			args:     []string{"-n", "3", "--style", "fancy"},
			wantCode: ExitCommandError,
			wantErr:  "invalid style",
		},
		{
			name:     "malformed control",
			input:    "DIAG\tIF\t0X\tBY\t1\n",
			args:     []string{"-n", "3"},
			wantCode: ExitFailure,
			wantErr:  "Error [MALFORMED_CONTROL_SPEC]",
		},
		{
			name:     "grounded bit collides with control",
			input:    "DIAG\tIF\t2M\tBY\t1\t2\n",
			args:     []string{"-n", "3", "--style", "oracular", "--gbits", "2"},
			wantCode: ExitFailure,
			wantErr:  "Error [DUPLICATE_BIT_POSITION]",
		},
		{
			name:     "angle count",
			input:    "DIAG\tIF\t0M\tBY\t1\n",
			args:     []string{"-n", "3"},
			wantCode: ExitFailure,
			wantErr:  "Error [ANGLE_COUNT]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefix := writeInput(t, tt.input)
			_, errOut, err := runExpandCmd(t, &RootOptions{Format: "text"}, append([]string{prefix}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, GetExitCode(err))
			assert.Contains(t, errOut, tt.wantErr)
		})
	}
}

func TestExpandCommand_MissingInput(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "absent")
	out, _, err := runExpandCmd(t, &RootOptions{Format: "json"}, prefix, "-n", "3")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FILE_NOT_FOUND", resp.Error.Code)
}

func TestExpandCommand_LineDetails(t *testing.T) {
	prefix := writeInput(t, "NOTA ok\nBOGUS\tAT\t0\n")
	out, _, err := runExpandCmd(t, &RootOptions{Format: "json"}, prefix, "-n", "3")
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SYNTAX", resp.Error.Code)
	details, ok := resp.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, details["line"])
	assert.Equal(t, "BOGUS\tAT\t0", details["text"])
}

func TestExpandCommand_RequiresPrefix(t *testing.T) {
	_, _, err := runExpandCmd(t, &RootOptions{Format: "text"})
	assert.Error(t, err)
}
