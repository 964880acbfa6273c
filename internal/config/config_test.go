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
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: 9000
  read_timeout: 5
db:
  driver: godror
  host: db.internal
  port: 1522
  user: scott
  password: tiger
  name: ORCL
llm:
  provider: ollama
  server_url: http://ollama:11434
  model: llama3
  timeout: 30s
auth:
  jwt:
    secret_key: s3cret
    access_token_ttl: 10m
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 90*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "godror", cfg.DB.Driver)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "llama3", cfg.LLM.Model)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "s3cret", cfg.Auth.JWT.SecretKey)
	assert.Equal(t, 10*time.Minute, cfg.Auth.JWT.AccessTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.Auth.JWT.RefreshTokenTTL)
	assert.Equal(t, 10, cfg.Leaderboard.DefaultLimit)
	assert.Equal(t, 100, cfg.Leaderboard.MaxLimit)
	assert.Equal(t, 2*time.Minute, cfg.Game.FinalizeLeaseTTL)
	assert.Equal(t, `user="scott" password="tiger" connectString="db.internal:1522/ORCL"`, cfg.GetDSN())
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	dir := writeConfig(t, "db:\n  host: from-file\n")
	t.Setenv("DB_HOST", "from-env")
	t.Setenv("AUTH_JWT_SECRET_KEY", "env-secret")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.DB.Host)
	assert.Equal(t, "env-secret", cfg.Auth.JWT.SecretKey)
	assert.Equal(t, "oracle://:@from-env:1521/FREEPDB1", cfg.GetDSN())
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 8090, cfg.Server.Port)
}

func TestLoadConfig_RejectsUnknownProvider(t *testing.T) {
	dir := writeConfig(t, "llm:\n  provider: markov\n")
	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.provider")
}
