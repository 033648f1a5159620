package init

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/latex-typst/internal/config"
)

func TestParseGroupLimit(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"empty keeps default", "", 0, false},
		{"blank keeps default", "   ", 0, false},
		{"number", "2500", 2500, false},
		{"padded number", " 12 ", 12, false},
		{"zero", "0", 0, true},
		{"negative", "-4", 0, true},
		{"not a number", "many", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGroupLimit(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "positive whole number")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunInit_Defaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "l2t", "config.yml")
	opts := &initOptions{defaults: true, maxGroupTokens: 300, defaultAlign: "r"}

	var buf bytes.Buffer
	err := runInit(configPath, opts, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Configuration saved to "+configPath)

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, &config.Config{
		MaxGroupTokens: 300,
		OutputFormat:   "table",
		ReportFormat:   "markdown",
		DefaultAlign:   "r",
	}, cfg)
}

func TestRunInit_InvalidAlign(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")
	opts := &initOptions{defaults: true, defaultAlign: "justify"}

	err := runInit(configPath, opts, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")

	_, statErr := os.Stat(configPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunInit_ExistingConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, (&config.Config{OutputFormat: "json"}).Save(configPath))

	t.Run("refuses without force", func(t *testing.T) {
		err := runInit(configPath, &initOptions{defaults: true}, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--force")
	})

	t.Run("overwrites with force", func(t *testing.T) {
		err := runInit(configPath, &initOptions{defaults: true, force: true}, &bytes.Buffer{})
		require.NoError(t, err)

		cfg, err := config.Load(configPath)
		require.NoError(t, err)
		assert.Equal(t, "table", cfg.OutputFormat)
	})
}

func TestNewCmdInit_Flags(t *testing.T) {
	cmd := NewCmdInit()

	assert.Equal(t, "init", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	ceilingFlag := cmd.Flags().Lookup("max-group-tokens")
	require.NotNil(t, ceilingFlag)
	assert.Equal(t, "0", ceilingFlag.DefValue)

	alignFlag := cmd.Flags().Lookup("default-align")
	require.NotNil(t, alignFlag)
	assert.Equal(t, "", alignFlag.DefValue)

	defaultsFlag := cmd.Flags().Lookup("defaults")
	require.NotNil(t, defaultsFlag)
	assert.Equal(t, "false", defaultsFlag.DefValue)
}
