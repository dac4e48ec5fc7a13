package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchbar/internal/config"
)

func TestConfigInitWritesEffectiveConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	t.Setenv("SEARCHBAR_ENDPOINT", "")
	t.Setenv("SEARCHBAR_TRIGGER", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{
		"config", "init",
		"--config", path,
		"--env-file", filepath.Join(dir, "missing.env"),
		"--endpoint", "http://search.example.com/app/",
		"--trigger", "enter",
	})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "wrote "+path)

	cfg, err := config.NewConfigServiceAt(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "http://search.example.com/app/", cfg.Endpoint)
	assert.Equal(t, config.TriggerEnter, cfg.Trigger)

	// A second init keeps the existing file.
	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	assert.Error(t, rootCmd.Execute())
}
