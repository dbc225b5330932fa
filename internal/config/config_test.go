package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg, err := Load("testdata/valid_config.yaml")
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
		assert.Equal(t, "llama3.2-vision", cfg.Ollama.Model)
		assert.Equal(t, "llama3:8b", cfg.Ollama.TextModel)
		assert.Equal(t, 300*time.Second, cfg.Ollama.Timeout)
		assert.Equal(t, "data/hs_codes.xlsx", cfg.Reference.FilePath)
		assert.Equal(t, 30*time.Minute, cfg.Scan.JobTTL)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, "hscode_audit", cfg.Database.Database)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "hscode-api-service", cfg.App.Name)

		require.NoError(t, cfg.Validate())
		assert.True(t, cfg.AuditEnabled())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load("testdata/does_not_exist.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load("testdata/malformed.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("testdata/valid_config.yaml")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid",
			mutate:  func(*Config) {},
			wantErr: "",
		},
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "missing ollama base url",
			mutate:  func(c *Config) { c.Ollama.BaseURL = "" },
			wantErr: "ollama base_url is required",
		},
		{
			name:    "missing ollama model",
			mutate:  func(c *Config) { c.Ollama.Model = "" },
			wantErr: "ollama model is required",
		},
		{
			name:    "missing ollama text model",
			mutate:  func(c *Config) { c.Ollama.TextModel = "" },
			wantErr: "ollama text_model is required",
		},
		{
			name:    "non-positive ollama timeout",
			mutate:  func(c *Config) { c.Ollama.Timeout = 0 },
			wantErr: "ollama timeout must be greater than 0",
		},
		{
			name:    "missing reference file path",
			mutate:  func(c *Config) { c.Reference.FilePath = "" },
			wantErr: "reference file_path is required",
		},
		{
			name:    "negative job ttl",
			mutate:  func(c *Config) { c.Scan.JobTTL = -time.Minute },
			wantErr: "scan job_ttl must not be negative",
		},
		{
			name:    "bad database port when host set",
			mutate:  func(c *Config) { c.Database.Port = 0 },
			wantErr: "invalid database port",
		},
		{
			name:    "missing database name when host set",
			mutate:  func(c *Config) { c.Database.Database = "" },
			wantErr: "database name is required",
		},
		{
			name: "database section ignored when host empty",
			mutate: func(c *Config) {
				c.Database.Host = ""
				c.Database.Port = 0
				c.Database.Database = ""
			},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestAuditEnabled(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.AuditEnabled())

	cfg.Database.Host = "localhost"
	assert.True(t, cfg.AuditEnabled())
}
