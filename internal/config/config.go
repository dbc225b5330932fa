package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// MinPort is the minimum valid port number
	MinPort = 1
	// MaxPort is the maximum valid port number
	MaxPort = 65535
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Ollama    OllamaConfig    `yaml:"ollama"`
	Reference ReferenceConfig `yaml:"reference"`
	Scan      ScanConfig      `yaml:"scan"`
	Database  DatabaseConfig  `yaml:"database"`
	Logging   LoggingConfig   `yaml:"logging"`
	App       AppConfig       `yaml:"app"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// OllamaConfig holds the external classifier connection settings. Model is
// used for scans carrying an image, TextModel for text-only scans.
type OllamaConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Model     string        `yaml:"model"`
	TextModel string        `yaml:"text_model"`
	Timeout   time.Duration `yaml:"timeout"`
}

// ReferenceConfig points at the HS code reference workbook.
type ReferenceConfig struct {
	FilePath string `yaml:"file_path"`
}

// ScanConfig holds scan job lifecycle settings.
type ScanConfig struct {
	JobTTL time.Duration `yaml:"job_ttl"`
}

// DatabaseConfig holds PostgreSQL connection configuration for the scan
// audit trail. The audit trail is disabled when Host is empty.
type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level        string `yaml:"level"`
	Format       string `yaml:"format"`
	Output       string `yaml:"output"`
	EnableCaller bool   `yaml:"enable_caller"`
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

// Load reads and parses the configuration file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < MinPort || c.Server.Port > MaxPort {
		return fmt.Errorf("invalid server port: %d (must be between %d and %d)", c.Server.Port, MinPort, MaxPort)
	}

	if c.Ollama.BaseURL == "" {
		return fmt.Errorf("ollama base_url is required")
	}

	if c.Ollama.Model == "" {
		return fmt.Errorf("ollama model is required")
	}

	if c.Ollama.TextModel == "" {
		return fmt.Errorf("ollama text_model is required")
	}

	if c.Ollama.Timeout <= 0 {
		return fmt.Errorf("ollama timeout must be greater than 0")
	}

	if c.Reference.FilePath == "" {
		return fmt.Errorf("reference file_path is required")
	}

	if c.Scan.JobTTL < 0 {
		return fmt.Errorf("scan job_ttl must not be negative")
	}

	// The audit database is optional; validate it only when configured.
	if c.Database.Host != "" {
		if c.Database.Port < MinPort || c.Database.Port > MaxPort {
			return fmt.Errorf("invalid database port: %d (must be between %d and %d)", c.Database.Port, MinPort, MaxPort)
		}

		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
	}

	return nil
}

// AuditEnabled reports whether a scan audit database is configured.
func (c *Config) AuditEnabled() bool {
	return c.Database.Host != ""
}
