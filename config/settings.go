// Package config provides application settings loaded from environment
// variables, plus logging setup.
//
// Settings readers handle:
// - Environment variable parsing with validation
// - Default value application
// - Backend-specific credential lookup
package config

import (
	"fmt"
	"os"
	"strconv"
)

// OpenAISettings holds OpenAI credentials.
type OpenAISettings struct {
	APIKey string
}

// AzureSettings holds Azure OpenAI credentials and resource location.
type AzureSettings struct {
	APIKey   string
	Endpoint string
}

// GeminiSettings holds Google Gemini credentials.
type GeminiSettings struct {
	APIKey string
}

// AnthropicSettings holds Anthropic credentials.
type AnthropicSettings struct {
	APIKey string
}

// LLMSettings holds backend-independent completion knobs.
type LLMSettings struct {
	MaxTokens   uint32
	Temperature float64
}

// OpenAI loads OpenAI settings from the environment.
func OpenAI() (OpenAISettings, error) {
	key, err := requireEnv("OPENAI_API_KEY")
	if err != nil {
		return OpenAISettings{}, err
	}
	return OpenAISettings{APIKey: key}, nil
}

// Azure loads Azure OpenAI settings from the environment.
func Azure() (AzureSettings, error) {
	key, err := requireEnv("AZURE_OPENAI_API_KEY")
	if err != nil {
		return AzureSettings{}, err
	}
	endpoint, err := requireEnv("AZURE_OPENAI_ENDPOINT")
	if err != nil {
		return AzureSettings{}, err
	}
	return AzureSettings{APIKey: key, Endpoint: endpoint}, nil
}

// Gemini loads Gemini settings from the environment.
func Gemini() (GeminiSettings, error) {
	key, err := requireEnv("GEMINI_API_KEY")
	if err != nil {
		return GeminiSettings{}, err
	}
	return GeminiSettings{APIKey: key}, nil
}

// Anthropic loads Anthropic settings from the environment.
func Anthropic() (AnthropicSettings, error) {
	key, err := requireEnv("ANTHROPIC_API_KEY")
	if err != nil {
		return AnthropicSettings{}, err
	}
	return AnthropicSettings{APIKey: key}, nil
}

// LLM loads completion knobs from the environment, applying defaults.
func LLM() (LLMSettings, error) {
	maxTokens, err := getEnvUint32("LLM_MAX_TOKENS", 4096)
	if err != nil {
		return LLMSettings{}, err
	}
	temperature, err := getEnvFloat64("LLM_TEMPERATURE", 0.7)
	if err != nil {
		return LLMSettings{}, err
	}
	return LLMSettings{MaxTokens: maxTokens, Temperature: temperature}, nil
}

func requireEnv(name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("%s environment variable not set", name)
	}
	return value, nil
}

func getEnvUint32(name string, defaultValue uint32) (uint32, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, raw, err)
	}
	return uint32(value), nil
}

func getEnvFloat64(name string, defaultValue float64) (float64, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, raw, err)
	}
	return value, nil
}
