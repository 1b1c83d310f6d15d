package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	DB       DBConfig       `yaml:"db"`
	Log      LogConfig      `yaml:"log"`
	Auth     AuthConfig     `yaml:"auth"`
	Evidence EvidenceConfig `yaml:"evidence"`
	MCP      MCPConfig      `yaml:"mcp"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// AuthConfig controls identity resolution. When disabled, the transport
// accepts the X-User-Id header instead of a verified token (local dev only).
type AuthConfig struct {
	Enabled   bool   `yaml:"enabled"`
	JWTSecret string `yaml:"jwt_secret"`
}

// EvidenceConfig supplies the allowed evidence types and size limits consumed
// by the AddEvidence operation.
type EvidenceConfig struct {
	Types             []string `yaml:"types"`
	MaxPayloadBytes   int      `yaml:"max_payload_bytes"`
	MaxPerObservation int      `yaml:"max_per_observation"`
}

// MCPConfig selects the MCP transport: "http" mounts the MCP handler on the
// API server, "stdio" runs over standard input/output.
type MCPConfig struct {
	Mode string `yaml:"mode"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "inspectd.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Auth: AuthConfig{
			Enabled: false,
		},
		Evidence: EvidenceConfig{
			Types:             []string{"note", "photo", "measurement", "file"},
			MaxPayloadBytes:   10 * 1024 * 1024,
			MaxPerObservation: 20,
		},
		MCP: MCPConfig{
			Mode: "http",
		},
	}

	if path := os.Getenv("INSPECTD_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("INSPECTD_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("INSPECTD_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid INSPECTD_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("INSPECTD_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("INSPECTD_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if enabled := os.Getenv("INSPECTD_AUTH_ENABLED"); enabled != "" {
		cfg.Auth.Enabled = enabled == "true" || enabled == "1"
	}
	if secret := os.Getenv("INSPECTD_JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if types := os.Getenv("INSPECTD_EVIDENCE_TYPES"); types != "" {
		cfg.Evidence.Types = parseList(types)
	}
	if maxBytes := os.Getenv("INSPECTD_EVIDENCE_MAX_PAYLOAD_BYTES"); maxBytes != "" {
		n, err := strconv.Atoi(maxBytes)
		if err != nil {
			return Config{}, fmt.Errorf("invalid INSPECTD_EVIDENCE_MAX_PAYLOAD_BYTES: %w", err)
		}
		cfg.Evidence.MaxPayloadBytes = n
	}
	if maxCount := os.Getenv("INSPECTD_EVIDENCE_MAX_PER_OBSERVATION"); maxCount != "" {
		n, err := strconv.Atoi(maxCount)
		if err != nil {
			return Config{}, fmt.Errorf("invalid INSPECTD_EVIDENCE_MAX_PER_OBSERVATION: %w", err)
		}
		cfg.Evidence.MaxPerObservation = n
	}
	if mode := os.Getenv("INSPECTD_MCP_MODE"); mode != "" {
		cfg.MCP.Mode = mode
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

func parseList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
