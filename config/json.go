package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// fileConfig is the JSON config file layout. Only the keys present in the
// file override values already loaded from the environment.
type fileConfig struct {
	SecretKey          string `json:"secret_key"`
	DBConnectionString string `json:"db_connection_string"`
	DBConnectionPool   *int32 `json:"db_connection_pool"`
	TokenTTL           string `json:"token_ttl"`
	RedisAddr          string `json:"redis_addr"`
	Storage            string `json:"storage"`
}

// PathFromEnv returns the config file named by APP_CONFIG, if any.
func PathFromEnv() string { return os.Getenv("APP_CONFIG") }

// ApplyFile overlays the JSON config file at path onto c. An empty path is a no-op.
func (c *Config) ApplyFile(path string) error {
	if path == "" {
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := json.Unmarshal(b, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.SecretKey != "" {
		c.SecretKey = fc.SecretKey
	}
	if fc.DBConnectionString != "" {
		c.DatabaseURL = fc.DBConnectionString
	}
	if fc.DBConnectionPool != nil {
		c.DBMaxConns = *fc.DBConnectionPool
	}
	if fc.TokenTTL != "" {
		d, err := time.ParseDuration(fc.TokenTTL)
		if err != nil {
			return fmt.Errorf("parse config file %s: token_ttl: %w", path, err)
		}
		c.TokenTTL = d
	}
	if fc.RedisAddr != "" {
		c.RedisAddr = fc.RedisAddr
	}
	if fc.Storage != "" {
		c.Storage = fc.Storage
	}
	return nil
}
