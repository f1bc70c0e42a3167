package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad_FromFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, `
env: "dev"
db_user: "reader"
db_name: "sales"
http_server:
  address: "0.0.0.0:8080"
dashboard:
  default_year: 2025
assistant:
  guard: "statement"
`))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address)
	assert.Equal(t, 2025, cfg.Dashboard.DefaultYear)
	assert.Equal(t, "statement", cfg.Assistant.Guard)

	// defaults fill the rest
	assert.Equal(t, 3306, cfg.DBPort)
	assert.Equal(t, 5*time.Second, cfg.Dashboard.RequestTimeout)
	assert.Equal(t, 200, cfg.Assistant.MaxRows)
	assert.Equal(t, "gemini-2.0-flash", cfg.Assistant.Model)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, `
db_user: "reader"
db_name: "sales"
`))
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("GEMINI_API_KEY", "k-123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "k-123", cfg.Assistant.APIKey)
	assert.Equal(t, "keyword", cfg.Assistant.Guard)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	// t.Setenv restores the previous values once the variables are unset here
	for _, key := range []string{"DB_USER", "DB_NAME"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	_, err := Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg := Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: 3306, DBName: "sales", ParseTime: true}
	assert.Equal(t, "u:p@tcp(h:3306)/sales?parseTime=true", cfg.DSN())
}
