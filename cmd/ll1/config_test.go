package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfigFile(t, "")

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultTraceLevel, c.Trace.Level)
	assert.Equal(t, DefaultParseTree, c.Parse.Tree)
	assert.Equal(t, DefaultParseNodeTable, c.Parse.NodeTable)
	assert.Equal(t, DefaultParseLogActions, c.Parse.LogActions)
	assert.Equal(t, DefaultColor, c.Color)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfigFile(t, `
trace:
  level: debug
parse:
  tree: false
  node_table: true
  log_actions: true
color: false
`)

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.Trace.Level)
	assert.False(t, c.Parse.Tree)
	assert.True(t, c.Parse.NodeTable)
	assert.True(t, c.Parse.LogActions)
	assert.False(t, c.Color)
}

func TestLoadConfig_Env(t *testing.T) {
	path := writeConfigFile(t, "")
	t.Setenv("LL1_TRACE_LEVEL", "info")
	t.Setenv("LL1_PARSE_LOG_ACTIONS", "true")

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "info", c.Trace.Level)
	assert.True(t, c.Parse.LogActions)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := writeConfigFile(t, `
trace:
  level: verbose
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid trace level")
}

func TestConfig_Validate(t *testing.T) {
	for _, level := range []string{"error", "Info", "DEBUG"} {
		c := &Config{Trace: TraceConfig{Level: level}}
		assert.NoError(t, c.Validate(), level)
	}
	c := &Config{Trace: TraceConfig{Level: ""}}
	assert.Error(t, c.Validate())
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}
