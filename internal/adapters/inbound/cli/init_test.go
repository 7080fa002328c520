package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCmd_CreatesConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	out, err := runCLI(t, tmpDir, "", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Created .docqms.yaml")

	data, err := os.ReadFile(filepath.Join(tmpDir, ".docqms.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "base_url: http://localhost:8000")
	assert.Contains(t, string(data), "missing_required_field")
	assert.Contains(t, string(data), "max_attempts: 3")
}

func TestInitCmd_ServerAndMinScore(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := runCLI(t, tmpDir, "", "init", "--server", "https://qms.example.com", "--min-score", "85")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(tmpDir, ".docqms.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "base_url: https://qms.example.com")
	assert.Contains(t, string(data), "min_score: 85")
}

func TestInitCmd_FailsIfExists(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".docqms.yaml"), []byte("existing"), 0644))

	_, err := runCLI(t, tmpDir, "", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCmd_ForceOverwrites(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".docqms.yaml"), []byte("old"), 0644))

	_, err := runCLI(t, tmpDir, "", "init", "--force")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(tmpDir, ".docqms.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "server:")
	assert.NotEqual(t, "old", string(data))
}

func TestInitCmd_InvalidServer(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "", "init", "--server", "ftp://qms.example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must use http or https")
}
