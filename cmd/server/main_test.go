package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "modelservice dev\n", out.String())
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--port", "9191", "--log-level", "debug"}))

	cfg, path, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, "9191", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_InvalidFlag(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--port", "0"}))

	_, _, err := loadConfig(cmd)
	assert.Error(t, err)
}
