package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfigFileDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "app:\n  logLevel: warn\n")

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, PartitionPolicyTrust, cfg.AI.Analyze.PartitionPolicy)
	assert.True(t, cfg.AI.Analyze.CircuitBreaker.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Server.Sessions.IdleTTL)
	assert.NotNil(t, cfg.Prompts)
}

func TestLoadConfigFileEnvOverride(t *testing.T) {
	t.Setenv("SKILLSYNC_AI_APIKEY", "env-key")
	t.Setenv("SKILLSYNC_SERVER_PORT", "9999")
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "server:\n  port: \"8081\"\n")

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.AI.APIKey)
	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "env-key", cfg.GetChatConfig().APIKey)
}

func TestGeminiAPIKeyFallback(t *testing.T) {
	t.Setenv("SKILLSYNC_AI_APIKEY", "")
	t.Setenv("GEMINI_API_KEY", "sdk-key")
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "app:\n  logLevel: info\n")

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sdk-key", cfg.AI.APIKey)
}

func TestGetOperationConfigFallbacks(t *testing.T) {
	opTimeout := 5 * time.Second
	cfg := &Config{
		AI: AIConfig{
			Provider:    "gemini",
			Model:       "gemini-2.5-flash",
			Timeout:     time.Minute,
			APIKey:      "global-key",
			Temperature: 0.4,
			Extract: OperationAIConfig{
				Model:   "gemini-2.5-flash-lite",
				Timeout: &opTimeout,
				APIKey:  "extract-key",
			},
		},
	}

	extract := cfg.GetExtractConfig()
	assert.Equal(t, OperationExtract, extract.Name)
	assert.Equal(t, "gemini-2.5-flash-lite", extract.Model)
	assert.Equal(t, opTimeout, *extract.Timeout)
	assert.Equal(t, "extract-key", extract.APIKey)
	assert.Equal(t, float32(0.4), *extract.Temperature)

	analyze := cfg.GetAnalyzeConfig()
	assert.Equal(t, "gemini-2.5-flash", analyze.Model)
	assert.Equal(t, time.Minute, *analyze.Timeout)
	assert.Equal(t, "global-key", analyze.APIKey)
	assert.Equal(t, PartitionPolicyTrust, analyze.PartitionPolicy)

	// Filling defaults must not alias the global values
	*analyze.Timeout = time.Second
	assert.Equal(t, time.Minute, cfg.AI.Timeout)
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", TLS: TLSConfig{Mode: "disabled"}},
		App: AppConfig{
			DefaultFormat:    "text",
			SupportedFormats: []string{"json", "text", "markdown"},
			MaxFileSize:      1024,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: true},
		{name: "unsupported default format", mutate: func(c *Config) { c.App.DefaultFormat = "xml" }, wantErr: true},
		{name: "zero max file size", mutate: func(c *Config) { c.App.MaxFileSize = 0 }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.AI.Timeout = -time.Second }, wantErr: true},
		{name: "unknown partition policy", mutate: func(c *Config) { c.AI.Analyze.PartitionPolicy = "strict" }, wantErr: true},
		{name: "enforce partition policy", mutate: func(c *Config) { c.AI.Analyze.PartitionPolicy = PartitionPolicyEnforce }},
		{
			name: "bad breaker threshold",
			mutate: func(c *Config) {
				c.AI.Chat.CircuitBreaker = CircuitBreakerConfig{Enabled: true, FailureThreshold: 1.5}
			},
			wantErr: true,
		},
		{name: "missing API key is allowed", mutate: func(c *Config) { c.AI.APIKey = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitAndTrim(" a, b ,,c "))
	assert.Empty(t, splitAndTrim(" , "))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "abcd****mnop", MaskSecret("abcdefghijklmnop"))
	assert.Equal(t, "****", MaskSecret("short"))
	assert.Equal(t, "", MaskSecret(""))
}
