package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hnthap/kb-mcp/kb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func Test_ReadConfig_Defaults(t *testing.T) {
	cfg, err := readConfig(writeConfig(t, "data_file: data/qa.xlsx\n"))
	require.NoError(t, err)

	assert.Equal(t, "data/qa.xlsx", cfg.DataFile)
	assert.Equal(t, "http", cfg.Transport)
	assert.Equal(t, "localhost:3000", cfg.ServerAddr)
	assert.Equal(t, kb.DefaultThreshold, cfg.Threshold)
	assert.False(t, cfg.OptionalData)
	assert.Nil(t, cfg.Relay)
}

func Test_ReadConfig_Overrides(t *testing.T) {
	cfg, err := readConfig(writeConfig(t, `
data_file: kb.xlsx
transport: stdio
threshold: 0.6
stop_words: [la, gi]
optional_data: true
relay:
  url: ws://gateway.example/ws
`))
	require.NoError(t, err)

	assert.Equal(t, "stdio", cfg.Transport)
	assert.Equal(t, 0.6, cfg.Threshold)
	assert.Equal(t, []string{"la", "gi"}, cfg.StopWords)
	assert.True(t, cfg.OptionalData)
	require.NotNil(t, cfg.Relay)
	assert.Equal(t, "ws://gateway.example/ws", cfg.Relay.URL)
	assert.Equal(t, 5000, cfg.Relay.ReconnectMs)
}

func Test_ReadConfig_MissingFile(t *testing.T) {
	_, err := readConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func Test_ReadConfig_Invalid(t *testing.T) {
	_, err := readConfig(writeConfig(t, "data_file: [unterminated"))
	assert.Error(t, err)
}
