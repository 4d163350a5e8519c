package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestPrimeCommand(t *testing.T) {
	out, err := runCommand(t, "prime", "7")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, err = runCommand(t, "prime", "1")
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)

	_, err = runCommand(t, "prime", "2.5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not an integer")
}

func TestFetchCommandMockSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  output_path: stderr\n"), 0o600))

	out, err := runCommand(t, "fetch", "--config", path, "--source", "mock")
	require.NoError(t, err)

	var body struct {
		Source   string             `json:"source"`
		Forecast map[string]float64 `json:"forecast"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, "mock", body.Source)
	assert.Equal(t, map[string]float64{"max_temperature": 67, "min_temperature": 45}, body.Forecast)
}

func TestFetchCommandUnknownSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("environment: test\n"), 0o600))

	_, err := runCommand(t, "fetch", "--config", path, "--source", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown data source")
}
