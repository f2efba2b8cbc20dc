package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// applyFallbacks fills values that depend on the environment or other settings
func (c *Config) applyFallbacks() {
	c.applyAPIKeyFallbacks()
	c.applyTLSDefaults()
	c.applyObservabilityDefaults()
}

func (c *Config) applyAPIKeyFallbacks() {
	// GEMINI_API_KEY is the variable the Gemini SDK documents
	if c.AI.APIKey == "" {
		c.AI.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	if len(c.Server.APIKeys) == 0 {
		if apiKeysEnv := os.Getenv("SKILLSYNC_SERVER_APIKEYS"); apiKeysEnv != "" {
			c.Server.APIKeys = splitAndTrim(apiKeysEnv)
		}
	}
}

func (c *Config) applyTLSDefaults() {
	if c.Server.TLS.Mode == "mutual" && c.Server.TLS.ClientAuthPolicy == "" {
		c.Server.TLS.ClientAuthPolicy = "require"
	}
	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}
}

func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		if hostname, err := os.Hostname(); err == nil {
			c.Observability.ServiceInstance = fmt.Sprintf("%s-%s", c.Observability.ServiceName, hostname)
		} else {
			c.Observability.ServiceInstance = fmt.Sprintf("%s-1", c.Observability.ServiceName)
		}
	}

	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

// splitAndTrim splits a comma-separated list, dropping empty entries
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MaskSecret keeps the first and last four characters of long secrets
func MaskSecret(s string) string {
	switch {
	case len(s) > 8:
		return s[:4] + "****" + s[len(s)-4:]
	case s != "":
		return "****"
	default:
		return ""
	}
}

// logConfigurationSources logs where the configuration came from, with secrets masked
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		"SKILLSYNC_AI_APIKEY",
		"SKILLSYNC_AI_MODEL",
		"SKILLSYNC_SERVER_PORT",
		"SKILLSYNC_SERVER_HOST",
		"SKILLSYNC_APP_LOGLEVEL",
		"SKILLSYNC_VAULT_ENABLED",
		"GEMINI_API_KEY",
	}

	hasEnvVars := false
	for _, envVar := range envVars {
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}
		if strings.Contains(strings.ToLower(envVar), "key") {
			value = "***MASKED***"
		}
		log.Printf("[CONFIG]   %s=%s", envVar, value)
		hasEnvVars = true
	}
	if !hasEnvVars {
		log.Println("[CONFIG] Environment variables: none set")
	}

	apiKeyState := "***NOT SET***"
	if c.AI.APIKey != "" {
		apiKeyState = "***CONFIGURED***"
	}
	log.Printf("[CONFIG] AI provider=%s model=%s apiKey=%s", c.AI.Provider, c.AI.Model, apiKeyState)
	log.Printf("[CONFIG] Server %s:%s tls=%s", c.Server.Host, c.Server.Port, c.Server.TLS.Mode)
	log.Printf("[CONFIG] Log level=%s vault=%t observability=%t",
		c.App.LogLevel, c.Vault.Enabled, c.Observability.Enabled)
	log.Printf("[CONFIG] Analyze partition policy=%s", c.AI.Analyze.PartitionPolicy)
}
