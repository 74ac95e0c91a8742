package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"easel/pkg/logging"
)

func TestLoadConfig_DefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), cfg)
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	content := "logLevel: debug\nport: 9000\ntheme: dark\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "dark", cfg.Theme)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte("port: 9000\n"), 0644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "default", cfg.Theme)
}

func TestLoadConfig_MalformedFileFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(":\nnot yaml ["), 0644))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestLoadConfig_ReadErrorPropagates(t *testing.T) {
	originalReadFile := osReadFile
	defer func() { osReadFile = originalReadFile }()
	osReadFile = func(string) ([]byte, error) {
		return nil, os.ErrPermission
	}

	_, err := LoadConfig("/anywhere")
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected logging.LogLevel
	}{
		{"debug", logging.LevelDebug},
		{"info", logging.LevelInfo},
		{"warn", logging.LevelWarn},
		{"error", logging.LevelError},
		{"bogus", logging.LevelInfo},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, ParseLogLevel(test.in), "level %q", test.in)
	}
}
