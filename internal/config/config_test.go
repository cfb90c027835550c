package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 3, cfg.Cluster.K)
	assert.Equal(t, int64(42), cfg.Cluster.Seed)
	assert.Equal(t, "./data/user_data.csv", cfg.Dataset.Path)
	assert.Equal(t, "./static/cluster_plot.png", cfg.Dataset.PlotPath)
	assert.Equal(t, 30*time.Second, cfg.Gemini.Timeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("CLUSTER_K", "4")
	t.Setenv("CLUSTER_SEED", "7")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("GEMINI_TIMEOUT", "5s")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("RATE_LIMIT", "not-a-number")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, 4, cfg.Cluster.K)
	assert.Equal(t, int64(7), cfg.Cluster.Seed)
	assert.Equal(t, "secret", cfg.Gemini.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Gemini.Timeout)
	assert.True(t, cfg.OTEL.Enabled)
	assert.Equal(t, 60, cfg.RateLimit.Requests, "unparseable values keep the default")
}

func TestLoadFile_YAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
port: ":7000"
dataset:
  path: /srv/data/user_data.csv
cluster:
  k: 5
  n_init: 2
gemini:
  timeout: 10s
redis:
  addr: localhost:6379
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CLUSTER_K", "3")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Port)
	assert.Equal(t, "/srv/data/user_data.csv", cfg.Dataset.Path)
	assert.Equal(t, 3, cfg.Cluster.K, "environment wins over the file")
	assert.Equal(t, 2, cfg.Cluster.NInit)
	assert.Equal(t, 10*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "./static/cluster_plot.png", cfg.Dataset.PlotPath, "unset keys keep defaults")
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cluster:\n  k: 0\n"), 0o600))
	_, err = LoadFile(path)
	assert.ErrorContains(t, err, "cluster.k")
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DOTENV_TEST_KEY=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("DOTENV_TEST_KEY") })

	LoadDotEnv(path, filepath.Join(t.TempDir(), "absent.env"))

	assert.Equal(t, "from-file", os.Getenv("DOTENV_TEST_KEY"))
}

func TestValidate_ProductionRequiresJWTSecret(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		secret  string
		wantErr bool
	}{
		{"development keeps default", "development", DefaultJWTSecret, false},
		{"production default", "production", DefaultJWTSecret, true},
		{"production empty", "production", "", true},
		{"production custom", "production", "a-long-random-secret", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Env = tt.env
			cfg.JWTSecret = tt.secret

			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorContains(t, err, "JWT_SECRET")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFile_ProductionWithDefaultSecretFails(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadFile("")
	assert.ErrorContains(t, err, "JWT_SECRET")
}
