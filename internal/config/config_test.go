package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "k3J9x!qZ2vW8mN4pL7rT1yU6bH0cF5gD"

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv(envJWTSecret, testSecret)
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultServerPort, cfg.Server.Port)
	assert.Equal(t, GrantsSourcePreset, cfg.Grants.Source)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.Equal(t, defaultRemoteAPITimeout, cfg.Remote.Timeout)
	assert.False(t, cfg.Database.Enabled())
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv(envPort, "9090")
	t.Setenv(envCookieSecure, "false")
	t.Setenv(envRemoteAPIURL, "https://api.example.com/")
	t.Setenv(envRemoteAPITimeout, "3s")
	t.Setenv(envSessionCacheTTL, "2")
	t.Setenv(envRateLimitRPS, "7.5")
	t.Setenv(envGrantsSource, "REMOTE")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.Auth.CookieSecure)
	assert.Equal(t, "https://api.example.com", cfg.Remote.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, 2*time.Minute, cfg.Auth.SessionCacheTTL)
	assert.Equal(t, 7.5, cfg.Server.RateLimitRPS)
	assert.Equal(t, GrantsSourceRemote, cfg.Grants.Source)
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	t.Setenv(envJWTSecret, "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), envJWTSecret)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: "8080", RateLimitRPS: 1, RateLimitBurst: 1, AuthRateLimitRPS: 1, AuthRateLimitBurst: 1},
			Auth:   AuthConfig{JWTSecret: testSecret},
			Grants: GrantsConfig{Source: GrantsSourcePreset},
		}
	}

	tests := []struct {
		name      string
		mutate    func(c *Config)
		shouldErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }, true},
		{"low entropy secret", func(c *Config) { c.Auth.JWTSecret = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" }, true},
		{"bad remote url", func(c *Config) { c.Remote.BaseURL = "ftp://x" }, true},
		{"zero rate", func(c *Config) { c.Server.RateLimitRPS = 0 }, true},
		{"unknown source", func(c *Config) { c.Grants.Source = "ldap" }, true},
		{"file without path", func(c *Config) { c.Grants.Source = GrantsSourceFile }, true},
		{"file with path", func(c *Config) {
			c.Grants.Source = GrantsSourceFile
			c.Grants.File = "grants.yaml"
		}, false},
		{"s3 without bucket", func(c *Config) { c.Grants.Source = GrantsSourceS3 }, true},
		{"s3 with bucket", func(c *Config) {
			c.Grants.Source = GrantsSourceS3
			c.Grants.Bucket = "b"
			c.AWS.Region = "eu-west-1"
		}, false},
		{"postgres without db", func(c *Config) { c.Grants.Source = GrantsSourcePostgres }, true},
		{"remote without url", func(c *Config) { c.Grants.Source = GrantsSourceRemote }, true},
		{"trusted origin", func(c *Config) { c.Server.TrustedOrigins = []string{"https://admin.example.com"} }, false},
		{"trusted origin without scheme", func(c *Config) { c.Server.TrustedOrigins = []string{"admin.example.com"} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadTrustedOrigins(t *testing.T) {
	setBaseEnv(t)
	t.Setenv(envTrustedOrigins, " https://admin.example.com, ,http://localhost:3000 ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://admin.example.com", "http://localhost:3000"}, cfg.Server.TrustedOrigins)
}

func TestGrantsSourceMessages(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Port: "8080", RateLimitRPS: 1, RateLimitBurst: 1, AuthRateLimitRPS: 1, AuthRateLimitBurst: 1},
		Auth:   AuthConfig{JWTSecret: testSecret},
		Grants: GrantsConfig{Source: GrantsSourceS3},
	}
	assert.EqualError(t, cfg.Validate(), "GRANTS_S3_BUCKET and REGION must be set when GRANTS_SOURCE=s3")

	cfg.Grants.Source = GrantsSourcePostgres
	assert.EqualError(t, cfg.Validate(), "DB_PASSWORD must be set when GRANTS_SOURCE=postgres")
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "portal", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=portal sslmode=disable", c.DSN())
}
