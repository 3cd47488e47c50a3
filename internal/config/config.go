// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
)

// Storage backend names accepted in STORE_BACKEND.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMySQL = "mysql"
)

// Config holds all runtime configuration values. Each field
// corresponds to an environment variable. Database variables are
// only required when the mysql backend is selected.
type Config struct {
	Env             string // application environment (e.g. "dev", "prod")
	Port            string // HTTP port to listen on
	StoreBackend    string // file | redis | mysql
	StoreFile       string // path of the snapshot slot (file backend)
	TokenFile       string // path of the bearer-token slot (file backend)
	DBUser          string // database username
	DBPass          string // database password (optional)
	DBHost          string // database host address
	DBPort          string // database port number
	DBName          string // database name
	RedisPrefix     string // key prefix for the redis backend
	BcryptCost      int    // bcrypt cost for password hashing
	CodeTTLMin      int    // verification code time-to-live in minutes
	SessionTTLHours int    // session time-to-live in hours
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		StoreBackend:    envStr("STORE_BACKEND", BackendFile),
		StoreFile:       envStr("STORE_FILE", "data/email-auth-data.json"),
		TokenFile:       envStr("TOKEN_FILE", "data/auth-token"),
		RedisPrefix:     envStr("REDIS_PREFIX", "emailauth"),
		BcryptCost:      envInt("BCRYPT_COST", 10),
		CodeTTLMin:      envInt("CODE_TTL_MIN", 10),
		SessionTTLHours: envInt("SESSION_TTL_HOURS", 24),
	}
	switch cfg.StoreBackend {
	case BackendFile, BackendRedis:
	case BackendMySQL:
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	default:
		log.Fatalf("unknown STORE_BACKEND: %q", cfg.StoreBackend)
	}
	return cfg
}

// must retrieves the value of a required environment variable. If
// the variable is unset or empty, the application logs a fatal error
// and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
