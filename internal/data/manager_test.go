package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"easel/internal/api"
)

// writeAppDir lays out a script directory with easel.toml and optional
// secrets.toml, returning the script path.
func writeAppDir(t *testing.T, config, secrets string) string {
	t.Helper()
	dir := t.TempDir()
	if config != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(config), 0644))
	}
	if secrets != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, SecretsFileName), []byte(secrets), 0644))
	}
	return filepath.Join(dir, "app.go")
}

func TestFromScriptPath_LoadsSources(t *testing.T) {
	script := writeAppDir(t, `
[sources.sales]
type = "csv"
path = "sales.csv"

[sources.warehouse]
type = "postgres"
dsn = "postgres://db/warehouse"
`, "")

	m := FromScriptPath(script)
	assert.False(t, m.Degraded())
	assert.Equal(t, []string{"sales", "warehouse"}, m.SourceNames())

	src, ok := m.Source("sales")
	assert.True(t, ok)
	assert.Equal(t, "csv", src.Type)
}

func TestFromScriptPath_SecretsOverlay(t *testing.T) {
	script := writeAppDir(t, `
[sources.warehouse]
type = "postgres"
dsn = "postgres://db/warehouse"
user = "app"
`, `
[sources.warehouse]
password = "hunter2"

[sources.unknown]
password = "ignored"
`)

	m := FromScriptPath(script)
	require.False(t, m.Degraded())

	src, ok := m.Source("warehouse")
	require.True(t, ok)
	assert.Equal(t, "app", src.User)
	assert.Equal(t, "hunter2", src.Password)
	assert.Equal(t, "postgres://db/warehouse", src.DSN)

	_, ok = m.Source("unknown")
	assert.False(t, ok, "secrets must not introduce new sources")
}

func TestFromScriptPath_MissingConfigIsDegraded(t *testing.T) {
	script := filepath.Join(t.TempDir(), "app.go")

	m := FromScriptPath(script)
	assert.True(t, m.Degraded())
	assert.Error(t, m.DegradedReason())
	assert.Empty(t, m.SourceNames())

	// A degraded manager still answers calls normally.
	names, err := m.Connect()
	assert.NoError(t, err)
	assert.Empty(t, names)
}

func TestFromScriptPath_MalformedConfigIsDegraded(t *testing.T) {
	script := writeAppDir(t, "sources = not toml at all [", "")

	m := FromScriptPath(script)
	assert.True(t, m.Degraded())
}

func TestManager_Rows(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sales.csv"), []byte("region,total\neu,10\nus,20\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`
[sources.sales]
type = "csv"
path = "sales.csv"
`), 0644))

	m := FromScriptPath(filepath.Join(dir, "app.go"))
	require.False(t, m.Degraded())

	rows, err := m.Rows("sales")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"region", "total"}, {"eu", "10"}, {"us", "20"}}, rows)
}

func TestManager_RowsUnknownSource(t *testing.T) {
	m := NewEmpty()

	_, err := m.Rows("nope")
	assert.True(t, api.IsNotFound(err))
}

func TestManager_RowsNonCSVSource(t *testing.T) {
	script := writeAppDir(t, `
[sources.warehouse]
type = "postgres"
dsn = "postgres://db/warehouse"
`, "")

	m := FromScriptPath(script)
	_, err := m.Rows("warehouse")
	assert.Error(t, err)
}

func TestNewEmpty_NotDegraded(t *testing.T) {
	m := NewEmpty()
	assert.False(t, m.Degraded())
	assert.Nil(t, m.DegradedReason())
}
