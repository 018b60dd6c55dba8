package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr string
	LogLevel string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AuthMode          string
	OIDCIssuerURL     string
	OIDCAudience      string
	OIDCJWKSURL       string
	OIDCClockSkewSecs int
	JWKSCacheTTLSecs  int

	RateLimitRequests       int
	RateLimitWindowSeconds  int
	RateLimitMaxKeys        int
	RateLimitIncludeSubject bool
	RateLimitFailClosed     bool

	RequestTimeoutSeconds int
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:                addr,
		LogLevel:                envDefault("LOG_LEVEL", "info"),
		RedisAddr:               os.Getenv("REDIS_ADDR"),
		RedisPassword:           os.Getenv("REDIS_PASSWORD"),
		RedisDB:                 envIntDefault("REDIS_DB", 0),
		AuthMode:                os.Getenv("AUTH_MODE"),
		OIDCIssuerURL:           os.Getenv("OIDC_ISSUER_URL"),
		OIDCAudience:            os.Getenv("OIDC_AUDIENCE"),
		OIDCJWKSURL:             os.Getenv("OIDC_JWKS_URL"),
		OIDCClockSkewSecs:       envIntDefault("OIDC_CLOCK_SKEW_SECONDS", 60),
		JWKSCacheTTLSecs:        envIntDefault("JWKS_CACHE_TTL_SECONDS", 300),
		RateLimitRequests:       envIntDefault("RATE_LIMIT_REQUESTS", 0),
		RateLimitWindowSeconds:  envIntDefault("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitMaxKeys:        envIntDefault("RATE_LIMIT_MAX_KEYS", 10000),
		RateLimitIncludeSubject: envBoolDefault("RATE_LIMIT_INCLUDE_SUBJECT", false),
		RateLimitFailClosed:     envBoolDefault("RATE_LIMIT_FAIL_CLOSED", false),
		RequestTimeoutSeconds:   envIntDefault("REQUEST_TIMEOUT_SECONDS", 15),
	}
}

func envDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func envBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "Yes":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "No":
		return false
	default:
		return def
	}
}

func (c Config) ClockSkew() time.Duration {
	if c.OIDCClockSkewSecs <= 0 {
		return 0
	}
	return time.Duration(c.OIDCClockSkewSecs) * time.Second
}

func (c Config) JWKSCacheTTL() time.Duration {
	if c.JWKSCacheTTLSecs <= 0 {
		return 0
	}
	return time.Duration(c.JWKSCacheTTLSecs) * time.Second
}

func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
