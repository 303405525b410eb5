package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultAdminUsername is the reserved admin identity when the config
// does not override it.
const DefaultAdminUsername = "very-fried-potato"

type Config struct {
	Server struct {
		Host      string `json:"host"`
		Port      int    `json:"port"`
		JWTSecret string `json:"jwtSecret"`
	} `json:"server"`
	Storage struct {
		Driver      string `json:"driver"`      // "sqlite" or "postgres"
		SQLitePath  string `json:"sqlitePath"`  // local file path
		PostgresDSN string `json:"postgresDsn"` // hosted database
	} `json:"storage"`
	Redis struct {
		Addr     string `json:"addr"`
		Password string `json:"password"`
		DB       int    `json:"db"`
	} `json:"redis"`
	Admin struct {
		Username string `json:"username"`
	} `json:"admin"`
}

var (
	once   sync.Once
	cfg    *Config
	cfgErr error
)

// LoadConfig reads config.json from disk (singleton)
func LoadConfig(path string) (*Config, error) {
	once.Do(func() {
		raw, err := os.ReadFile(path)
		if err != nil {
			cfgErr = fmt.Errorf("failed to read config file: %w", err)
			return
		}
		var c Config
		if err := json.Unmarshal(raw, &c); err != nil {
			cfgErr = fmt.Errorf("invalid config format: %w", err)
			return
		}
		// Minimal validation
		if c.Server.JWTSecret == "" {
			cfgErr = errors.New("jwtSecret must be set in config")
			return
		}
		if c.Storage.Driver == "" {
			c.Storage.Driver = DriverSQLite
		}
		switch c.Storage.Driver {
		case DriverSQLite:
			if c.Storage.SQLitePath == "" {
				c.Storage.SQLitePath = "potato-chat.db"
			}
		case DriverPostgres:
			if c.Storage.PostgresDSN == "" {
				cfgErr = errors.New("postgresDsn must be set for the postgres driver")
				return
			}
		default:
			cfgErr = fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
			return
		}
		if c.Admin.Username == "" {
			c.Admin.Username = DefaultAdminUsername
		}
		cfg = &c
	})
	return cfg, cfgErr
}

// GetConfig returns the loaded config (must call LoadConfig first)
func GetConfig() *Config {
	return cfg
}

// ResetConfigForTest resets the singleton state (for testing only)
func ResetConfigForTest() {
	once = sync.Once{}
	cfg = nil
	cfgErr = nil
}
