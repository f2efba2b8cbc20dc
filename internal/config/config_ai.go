package config

import "time"

// Operation names used for per-operation AI configuration, prompts and metrics
const (
	OperationExtract = "extract"
	OperationAnalyze = "analyze"
	OperationChat    = "chat"
)

// Operations lists every AI operation
var Operations = []string{OperationExtract, OperationAnalyze, OperationChat}

// Partition policies for the matched/gap skill check on analysis results
const (
	PartitionPolicyTrust   = "trust"
	PartitionPolicyEnforce = "enforce"
)

// AIConfig holds AI service configuration
type AIConfig struct {
	// Global values, used when an operation leaves a field unset
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	APIKey      string        `mapstructure:"apiKey"`
	Temperature float32       `mapstructure:"temperature"`

	// BaseURL overrides the Gemini endpoint, e.g. for a gateway
	BaseURL string `mapstructure:"baseURL"`

	Extract OperationAIConfig `mapstructure:"extract"`
	Analyze OperationAIConfig `mapstructure:"analyze"`
	Chat    OperationAIConfig `mapstructure:"chat"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // allowed while half-open
	Interval         time.Duration `mapstructure:"interval"`         // closed-state count reset
	Timeout          time.Duration `mapstructure:"timeout"`          // open to half-open
	MinRequests      uint32        `mapstructure:"minRequests"`      // before tripping is considered
	FailureThreshold float64       `mapstructure:"failureThreshold"` // 0.0-1.0
}

// PromptConfig overrides the built-in prompts of one operation. Inline text
// wins over a file path when both are set.
type PromptConfig struct {
	System     string `mapstructure:"system"`
	SystemFile string `mapstructure:"systemFile"`
	User       string `mapstructure:"user"`
	UserFile   string `mapstructure:"userFile"`
}

// OperationAIConfig holds AI configuration for a specific operation
type OperationAIConfig struct {
	Name           string               `mapstructure:"-"`
	Provider       string               `mapstructure:"provider"`
	Model          string               `mapstructure:"model"`
	Timeout        *time.Duration       `mapstructure:"timeout"`
	APIKey         string               `mapstructure:"apiKey"`
	Temperature    *float32             `mapstructure:"temperature"`
	Prompts        PromptConfig         `mapstructure:"prompts"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`

	// PartitionPolicy only applies to the analyze operation
	PartitionPolicy string `mapstructure:"partitionPolicy"`
}

func (a *AIConfig) operation(name string) *OperationAIConfig {
	switch name {
	case OperationExtract:
		return &a.Extract
	case OperationAnalyze:
		return &a.Analyze
	case OperationChat:
		return &a.Chat
	default:
		return nil
	}
}

// applyOperationDefaults fills unset operation fields from the global values
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		timeout := c.AI.Timeout
		opCfg.Timeout = &timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.Temperature == nil {
		temperature := c.AI.Temperature
		opCfg.Temperature = &temperature
	}
}

// GetOperationConfig returns the effective configuration for an operation
func (c *Config) GetOperationConfig(name string) OperationAIConfig {
	var cfg OperationAIConfig
	if op := c.AI.operation(name); op != nil {
		cfg = *op
	}
	cfg.Name = name
	c.applyOperationDefaults(&cfg)
	if name == OperationAnalyze && cfg.PartitionPolicy == "" {
		cfg.PartitionPolicy = PartitionPolicyTrust
	}
	return cfg
}

func (c *Config) GetExtractConfig() OperationAIConfig {
	return c.GetOperationConfig(OperationExtract)
}

func (c *Config) GetAnalyzeConfig() OperationAIConfig {
	return c.GetOperationConfig(OperationAnalyze)
}

func (c *Config) GetChatConfig() OperationAIConfig {
	return c.GetOperationConfig(OperationChat)
}
