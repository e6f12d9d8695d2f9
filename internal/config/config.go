package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store driver names accepted by the configuration.
const (
	StoreDriverSheets = "sheets"
	StoreDriverGorm   = "gorm"
	StoreDriverMemory = "memory"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName string
	AppEnv  string
	AppPort string

	StoreDriver     string
	SpreadsheetID   string
	CredentialsFile string
	RosterSheet     string
	ResponseSheet   string

	DatabaseDriver string
	DatabaseURL    string

	RedisURL string
	NATSURL  string

	JWTSecret       string
	TokenTTL        time.Duration
	TeacherAccounts map[string]string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CLASSDESK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Classdesk API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("store.driver", StoreDriverSheets)
	v.SetDefault("store.credentials_file", "credentials.json")
	v.SetDefault("store.roster_sheet", "Student List")
	v.SetDefault("store.response_sheet", "Response")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.url", "classdesk.db")
	v.SetDefault("auth.token_ttl", "8h")

	ttlString := v.GetString("auth.token_ttl")
	if ttlString == "" {
		ttlString = "8h"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid auth token ttl: %w", err)
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		StoreDriver:     strings.ToLower(v.GetString("store.driver")),
		SpreadsheetID:   v.GetString("store.spreadsheet_id"),
		CredentialsFile: v.GetString("store.credentials_file"),
		RosterSheet:     v.GetString("store.roster_sheet"),
		ResponseSheet:   v.GetString("store.response_sheet"),
		DatabaseDriver:  strings.ToLower(v.GetString("database.driver")),
		DatabaseURL:     v.GetString("database.url"),
		RedisURL:        v.GetString("redis.url"),
		NATSURL:         v.GetString("nats.url"),
		JWTSecret:       v.GetString("jwt.secret"),
		TokenTTL:        ttl,
		TeacherAccounts: parseAccounts(v.GetString("auth.teacher_accounts")),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	switch cfg.StoreDriver {
	case StoreDriverSheets:
		if cfg.SpreadsheetID == "" {
			return Config{}, fmt.Errorf("spreadsheet id must be provided for the sheets store")
		}
	case StoreDriverGorm, StoreDriverMemory:
	default:
		return Config{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	if len(cfg.TeacherAccounts) == 0 {
		return Config{}, fmt.Errorf("at least one teacher account must be configured")
	}

	return cfg, nil
}

// parseAccounts splits "user:bcrypthash,user2:bcrypthash" pairs. Bcrypt hashes
// contain no commas or colons beyond their $ separators, so the simple split holds.
func parseAccounts(raw string) map[string]string {
	accounts := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		accounts[parts[0]] = parts[1]
	}
	return accounts
}
