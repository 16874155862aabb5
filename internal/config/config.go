package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
	Mirror    MirrorConfig    `yaml:"mirror"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// TransportConfig selects how the MCP server is exposed: "stdio" or "http".
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type AuthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Key     string `yaml:"key"`
}

// MirrorConfig points at the optional remote backend. When Endpoint or
// Key is empty every mirror call is a no-op.
type MirrorConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Key       string `yaml:"key"`
	Bootstrap bool   `yaml:"bootstrap"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		DB: DBConfig{
			Path: "followup.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("FOLLOWUP_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("FOLLOWUP_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("FOLLOWUP_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FOLLOWUP_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("FOLLOWUP_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if dbPath := os.Getenv("FOLLOWUP_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("FOLLOWUP_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if key := os.Getenv("FOLLOWUP_AUTH_KEY"); key != "" {
		cfg.Auth.Enabled = true
		cfg.Auth.Key = key
	}
	if endpoint := os.Getenv("FOLLOWUP_MIRROR_ENDPOINT"); endpoint != "" {
		cfg.Mirror.Endpoint = endpoint
	}
	if key := os.Getenv("FOLLOWUP_MIRROR_KEY"); key != "" {
		cfg.Mirror.Key = key
	}
	if bootstrapStr := os.Getenv("FOLLOWUP_MIRROR_BOOTSTRAP"); bootstrapStr != "" {
		bootstrap, err := strconv.ParseBool(bootstrapStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FOLLOWUP_MIRROR_BOOTSTRAP: %w", err)
		}
		cfg.Mirror.Bootstrap = bootstrap
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
