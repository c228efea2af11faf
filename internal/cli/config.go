package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read as flag defaults.
const (
	EnvSource         = "INTAKE_SOURCE"
	EnvPartnerURL     = "INTAKE_PARTNER_URL"
	EnvStore          = "INTAKE_STORE"
	EnvStorePath      = "INTAKE_STORE_PATH"
	EnvRedisAddr      = "INTAKE_REDIS_ADDR"
	EnvRedisPassword  = "INTAKE_REDIS_PASSWORD"
	EnvRedisDB        = "INTAKE_REDIS_DB"
	EnvSessionTTL     = "INTAKE_SESSION_TTL"
	EnvEncryptionKey  = "INTAKE_ENCRYPTION_KEY"
	EnvFallbackKeys   = "INTAKE_FALLBACK_KEYS"
	EnvAddr           = "INTAKE_ADDR"
	EnvAllowedOrigins = "INTAKE_ALLOWED_ORIGINS"
	EnvDebug          = "INTAKE_DEBUG"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Config is the shared configuration of every command.
type Config struct {
	// Source is a Loam directory, a YAML/JSON definitions file,
	// or a partner session ID when PartnerURL is set.
	Source     string
	PartnerURL string

	Store         string
	StorePath     string // file store directory or SQLite DSN
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	EncryptionKey string
	FallbackKeys  []string

	Addr           string
	AllowedOrigins []string

	ExclusiveHeuristic bool
	PruneHidden        bool
	Debug              bool
}

// DefaultConfig returns the defaults overridden by INTAKE_* variables.
func DefaultConfig() Config {
	return ConfigFromEnv(os.LookupEnv)
}

// ConfigFromEnv builds the defaults using lookup to read the environment.
// Malformed numeric or duration values are ignored.
func ConfigFromEnv(lookup func(string) (string, bool)) Config {
	cfg := Config{
		Source: ".",
		Store:  StoreMemory,
		Addr:   ":8080",
	}

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = splitList(v)
		}
	}

	str(EnvSource, &cfg.Source)
	str(EnvPartnerURL, &cfg.PartnerURL)
	str(EnvStore, &cfg.Store)
	str(EnvStorePath, &cfg.StorePath)
	str(EnvRedisAddr, &cfg.RedisAddr)
	str(EnvRedisPassword, &cfg.RedisPassword)
	str(EnvEncryptionKey, &cfg.EncryptionKey)
	str(EnvAddr, &cfg.Addr)
	list(EnvFallbackKeys, &cfg.FallbackKeys)
	list(EnvAllowedOrigins, &cfg.AllowedOrigins)

	if v, ok := lookup(EnvRedisDB); ok {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = db
		}
	}
	if v, ok := lookup(EnvSessionTTL); ok {
		if ttl, err := time.ParseDuration(v); err == nil {
			cfg.SessionTTL = ttl
		}
	}
	if v, ok := lookup(EnvDebug); ok {
		cfg.Debug, _ = strconv.ParseBool(v)
	}
	return cfg
}

// Validate checks the combination of settings.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreFile, StoreSQLite:
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("store %q requires a redis address", c.Store)
		}
	default:
		return fmt.Errorf("unknown store %q (supported: memory, file, redis, sqlite)", c.Store)
	}
	if c.Source == "" {
		return fmt.Errorf("a questionnaire source is required")
	}
	if len(c.FallbackKeys) > 0 && c.EncryptionKey == "" {
		return fmt.Errorf("fallback keys require an encryption key")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
