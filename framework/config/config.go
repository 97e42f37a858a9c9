package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
type Config struct {
	App AppConfig
	DB  DBConfig
	Tx  TxConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
}

type DBConfig struct {
	Driver   string
	Host     string
	Port     string
	Database string
	Username string
	Password string
	SSLMode  string
}

// TxConfig carries the default transaction boundary settings.
type TxConfig struct {
	Isolation sql.IsolationLevel
	Timeout   time.Duration
	ReadOnly  bool
}

// Load reads .env (if present) and populates a Config from environment
// variables. Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "GoSpring"),
			Env:   env("APP_ENV", "local"),
			Debug: envBool("APP_DEBUG", true),
		},
		DB: DBConfig{
			Driver:   env("DB_DRIVER", "postgres"),
			Host:     env("DB_HOST", "127.0.0.1"),
			Port:     env("DB_PORT", "5432"),
			Database: env("DB_DATABASE", ""),
			Username: env("DB_USERNAME", "postgres"),
			Password: env("DB_PASSWORD", ""),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		Tx: TxConfig{
			Isolation: isolation(env("TX_ISOLATION", "default")),
			Timeout:   time.Duration(GetInt("TX_TIMEOUT_SECONDS", 0)) * time.Second,
			ReadOnly:  envBool("TX_READ_ONLY", false),
		},
	}
}

// DSN renders the data source name for the configured driver. Postgres and
// MySQL formats are built in; other drivers fall back to DB_DSN verbatim.
func (db DBConfig) DSN() string {
	switch db.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			db.Host, db.Port, db.Username, db.Password, db.Database, db.SSLMode)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s",
			db.Username, db.Password, db.Host, db.Port, db.Database)
	default:
		return env("DB_DSN", "")
	}
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// isolation maps a declarative isolation name onto database/sql's levels.
func isolation(name string) sql.IsolationLevel {
	switch name {
	case "read-uncommitted":
		return sql.LevelReadUncommitted
	case "read-committed":
		return sql.LevelReadCommitted
	case "repeatable-read":
		return sql.LevelRepeatableRead
	case "serializable":
		return sql.LevelSerializable
	default:
		return sql.LevelDefault
	}
}
