package domain

import (
	"strings"
	"time"
)

// Rich domain model: configuration questions are answered by Config itself.

// LLMEnabled reports whether any model-backed resolution path is switched on.
func (c Config) LLMEnabled() bool {
	return c.UseOllama
}

// DeciderEnabled reports whether the decider path must be attempted first.
// The decider only runs when the general LLM switch is also on.
func (c Config) DeciderEnabled() bool {
	return c.UseOllama && c.UseOllamaDecider
}

// GetLLMModel returns the configured model name or the default.
func (c Config) GetLLMModel() string {
	if strings.TrimSpace(c.LLMModel) == "" {
		return DefaultLLMModel
	}
	return c.LLMModel
}

// GetLLMTimeout returns the wall-clock bound for one model invocation.
func (c Config) GetLLMTimeout() time.Duration {
	if c.LLMTimeout <= 0 {
		return DefaultLLMTimeout
	}
	return time.Duration(c.LLMTimeout) * time.Second
}

// GetWakeWord returns the lower-cased wake phrase, falling back to the default.
func (c Config) GetWakeWord() string {
	wake := strings.ToLower(strings.TrimSpace(c.WakeWord))
	if wake == "" {
		return DefaultWakeWord
	}
	return wake
}

// IsDryRun reports whether side effects must be described instead of performed.
func (c Config) IsDryRun() bool {
	return !c.AllowExecution
}

// Clone returns a deep copy so callers can mutate lists safely.
func (c Config) Clone() Config {
	out := c
	if c.AllowedCommands != nil {
		out.AllowedCommands = append([]string(nil), c.AllowedCommands...)
	}
	return out
}
