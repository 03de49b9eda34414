package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envBodyLimit             = "SERVER_BODY_LIMIT"
	envEnableProfiling       = "ENABLE_PROFILING"
	envTrustedOrigins        = "CSRF_TRUSTED_ORIGINS"
	envRateLimitRPS          = "RATE_LIMIT_RPS"
	envRateLimitBurst        = "RATE_LIMIT_BURST"
	envAuthRateLimitRPS      = "AUTH_RATE_LIMIT_RPS"
	envAuthRateLimitBurst    = "AUTH_RATE_LIMIT_BURST"
	envJWTSecret             = "JWT_SECRET"
	envCookieSecure          = "COOKIE_SECURE"
	envSessionCacheTTL       = "SESSION_CACHE_TTL"
	envRemoteAPIURL          = "REMOTE_API_URL"
	envRemoteAPITimeout      = "REMOTE_API_TIMEOUT"
	envGrantsSource          = "GRANTS_SOURCE"
	envGrantsFile            = "GRANTS_FILE"
	envGrantsBucket          = "GRANTS_S3_BUCKET"
	envGrantsKey             = "GRANTS_S3_KEY"
	envDBHost                = "DB_HOST"
	envDBPort                = "DB_PORT"
	envDBName                = "DB_NAME"
	envDBUser                = "DB_USER"
	envDBPassword            = "DB_PASSWORD"
	envDBSSLMode             = "DB_SSL_MODE"
	envDBMaxConns            = "DB_MAX_CONNS"
	envDBMinConns            = "DB_MIN_CONNS"
	envRedisURL              = "REDIS_URL"
	envAWSRegion             = "REGION"
	envAWSAccessKeyID        = "AWS_ACCESS_KEY_ID"
	envAWSSecretAccessKey    = "AWS_SECRET_ACCESS_KEY"
	envLogLevel              = "LOG_LEVEL"
	envLogFormat             = "LOG_FORMAT"
)

const (
	defaultServerPort          = "8080"
	defaultServerReadTimeout   = 10 * time.Second
	defaultServerWriteTimeout  = 10 * time.Second
	defaultServerShutdown      = 10 * time.Second
	defaultBodyLimit           = "1M"
	defaultRateLimitRPS        = 20
	defaultRateLimitBurst      = 40
	defaultAuthRateLimitRPS    = 2
	defaultAuthRateLimitBurst  = 5
	defaultSessionCacheTTL     = 5 * time.Minute
	defaultRemoteAPITimeout    = 15 * time.Second
	defaultGrantsSource        = GrantsSourcePreset
	defaultGrantsKey           = "grants.yaml"
	defaultDBHost              = "localhost"
	defaultDBPort              = 5432
	defaultDBName              = "portal"
	defaultDBUser              = "portal_app"
	defaultDBSSLMode           = "disable"
	defaultDBMaxConns          = 10
	defaultDBMinConns          = 2
	defaultLogLevel            = "info"
	defaultLogFormat           = "json"
	minJWTSecretLength         = 32
	minUniqueCharsInSecret     = 16
	minRepeatedCharThreshold   = 4
	maxRepeatedChars           = 2
	errPortRequiredFmt         = "PORT must be set"
	errRemoteURLInvalidFmt     = "REMOTE_API_URL must be an http(s) URL, got %q"
	errGrantsSourceFmt         = "GRANTS_SOURCE %q is not one of %s"
	errJWTSecretMinLengthFmt   = "JWT_SECRET must be at least %d characters"
	errJWTSecretLowEntropyFmt  = "JWT_SECRET has insufficient entropy (appears non-random). Use a cryptographically secure random string."
	errRateLimitFmt            = "%s must be positive"
	errInvalidConfigurationFmt = "invalid configuration: %w"
)

// Catalog sources accepted by GRANTS_SOURCE
const (
	GrantsSourcePreset   = "preset"
	GrantsSourceFile     = "file"
	GrantsSourceS3       = "s3"
	GrantsSourcePostgres = "postgres"
	GrantsSourceRemote   = "remote"
)

var grantsSources = []string{
	GrantsSourcePreset,
	GrantsSourceFile,
	GrantsSourceS3,
	GrantsSourcePostgres,
	GrantsSourceRemote,
}

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Remote   RemoteConfig
	Grants   GrantsConfig
	Database DatabaseConfig
	Redis    RedisConfig
	AWS      AWSConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	BodyLimit          string
	Profiling          bool
	TrustedOrigins     []string
	RateLimitRPS       float64
	RateLimitBurst     int
	AuthRateLimitRPS   float64
	AuthRateLimitBurst int
}

type AuthConfig struct {
	JWTSecret       string
	CookieSecure    bool
	SessionCacheTTL time.Duration
}

type RemoteConfig struct {
	BaseURL string
	Timeout time.Duration
}

type GrantsConfig struct {
	Source string
	File   string
	Bucket string
	Key    string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	URL string
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv(envPort, defaultServerPort),
			ReadTimeout:        getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:       getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout:    getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
			BodyLimit:          getEnv(envBodyLimit, defaultBodyLimit),
			Profiling:          getBoolEnv(envEnableProfiling, false),
			TrustedOrigins:     getListEnv(envTrustedOrigins),
			RateLimitRPS:       getFloatEnv(envRateLimitRPS, defaultRateLimitRPS),
			RateLimitBurst:     getIntEnv(envRateLimitBurst, defaultRateLimitBurst),
			AuthRateLimitRPS:   getFloatEnv(envAuthRateLimitRPS, defaultAuthRateLimitRPS),
			AuthRateLimitBurst: getIntEnv(envAuthRateLimitBurst, defaultAuthRateLimitBurst),
		},
		Auth: AuthConfig{
			JWTSecret:       os.Getenv(envJWTSecret),
			CookieSecure:    getBoolEnv(envCookieSecure, true),
			SessionCacheTTL: getDurationEnv(envSessionCacheTTL, defaultSessionCacheTTL),
		},
		Remote: RemoteConfig{
			BaseURL: strings.TrimRight(os.Getenv(envRemoteAPIURL), "/"),
			Timeout: getDurationEnv(envRemoteAPITimeout, defaultRemoteAPITimeout),
		},
		Grants: GrantsConfig{
			Source: strings.ToLower(getEnv(envGrantsSource, defaultGrantsSource)),
			File:   os.Getenv(envGrantsFile),
			Bucket: os.Getenv(envGrantsBucket),
			Key:    getEnv(envGrantsKey, defaultGrantsKey),
		},
		Database: DatabaseConfig{
			Host:     getEnv(envDBHost, defaultDBHost),
			Port:     getIntEnv(envDBPort, defaultDBPort),
			Database: getEnv(envDBName, defaultDBName),
			User:     getEnv(envDBUser, defaultDBUser),
			Password: os.Getenv(envDBPassword),
			SSLMode:  getEnv(envDBSSLMode, defaultDBSSLMode),
			MaxConns: getIntEnv(envDBMaxConns, defaultDBMaxConns),
			MinConns: getIntEnv(envDBMinConns, defaultDBMinConns),
		},
		Redis: RedisConfig{
			URL: os.Getenv(envRedisURL),
		},
		AWS: AWSConfig{
			Region:          os.Getenv(envAWSRegion),
			AccessKeyID:     os.Getenv(envAWSAccessKeyID),
			SecretAccessKey: os.Getenv(envAWSSecretAccessKey),
		},
		Log: LogConfig{
			Level:  getEnv(envLogLevel, defaultLogLevel),
			Format: getEnv(envLogFormat, defaultLogFormat),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New(errPortRequiredFmt)
	}

	if c.Server.RateLimitRPS <= 0 || c.Server.RateLimitBurst <= 0 {
		return fmt.Errorf(errRateLimitFmt, envRateLimitRPS)
	}

	if c.Server.AuthRateLimitRPS <= 0 || c.Server.AuthRateLimitBurst <= 0 {
		return fmt.Errorf(errRateLimitFmt, envAuthRateLimitRPS)
	}

	if c.Auth.JWTSecret == "" {
		return errors.New(messages.requiredEnvNotSet(envJWTSecret))
	}

	if len(c.Auth.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf(errJWTSecretMinLengthFmt, minJWTSecretLength)
	}

	if !hasMinimumEntropy(c.Auth.JWTSecret) {
		return errors.New(errJWTSecretLowEntropyFmt)
	}

	if c.Remote.BaseURL != "" &&
		!strings.HasPrefix(c.Remote.BaseURL, "http://") &&
		!strings.HasPrefix(c.Remote.BaseURL, "https://") {
		return fmt.Errorf(errRemoteURLInvalidFmt, c.Remote.BaseURL)
	}

	for _, origin := range c.Server.TrustedOrigins {
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return errors.New(messages.invalidTrustedOrigin(origin))
		}
	}

	return c.validateGrants()
}

func (c *Config) validateGrants() error {
	switch c.Grants.Source {
	case GrantsSourcePreset:
	case GrantsSourceFile:
		if c.Grants.File == "" {
			return errors.New(messages.requiredForSource(envGrantsFile, GrantsSourceFile))
		}
	case GrantsSourceS3:
		if c.Grants.Bucket == "" || c.AWS.Region == "" {
			return errors.New(messages.requiredForSource(envGrantsBucket+" and "+envAWSRegion, GrantsSourceS3))
		}
	case GrantsSourcePostgres:
		if !c.Database.Enabled() {
			return errors.New(messages.requiredForSource(envDBPassword, GrantsSourcePostgres))
		}
	case GrantsSourceRemote:
		if c.Remote.BaseURL == "" {
			return errors.New(messages.requiredForSource(envRemoteAPIURL, GrantsSourceRemote))
		}
	default:
		return fmt.Errorf(errGrantsSourceFmt, c.Grants.Source, strings.Join(grantsSources, ", "))
	}
	return nil
}

func hasMinimumEntropy(secret string) bool {
	if len(secret) < minJWTSecretLength {
		return false
	}

	charCounts := make(map[rune]int)
	for _, char := range secret {
		charCounts[char]++
	}

	uniqueChars := len(charCounts)
	if uniqueChars < minUniqueCharsInSecret {
		return false
	}

	repeatedChars := 0
	for _, count := range charCounts {
		if count > len(secret)/minRepeatedCharThreshold {
			repeatedChars++
		}
	}

	return repeatedChars <= maxRepeatedChars
}

// Enabled reports whether a database is configured. The portal runs without
// one; audit events then go to the log only.
func (c *DatabaseConfig) Enabled() bool {
	return c.Password != ""
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Enabled reports whether a shared redis session cache is configured
func (c *RedisConfig) Enabled() bool {
	return c.URL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getListEnv splits a comma-separated variable, dropping empty items
func getListEnv(key string) []string {
	var items []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}
