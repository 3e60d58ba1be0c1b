package domain

import "time"

// SecureFilePermissions is the permission for user state files (rw-------)
const SecureFilePermissions = 0o600

// Defaults applied when the configuration leaves a value unset.
const (
	DefaultLLMModel   = "phi3"
	DefaultWakeWord   = "hey gng"
	DefaultLLMTimeout = 10 * time.Second
	// DefaultOllamaExecutable is looked up on PATH when ollama_path is unset.
	DefaultOllamaExecutable = "ollama"
)

// Turn responses.
const (
	// AckResponse answers a bare wake word.
	AckResponse = "Yes?"
	// ReasonWakeWordNotDetected marks a gate rejection.
	ReasonWakeWordNotDetected = "wake_word_not_detected"
	// TestUtterance is the canned input of the one-shot test mode.
	TestUtterance = "hey gng open github"
)

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
	// ClockFormat renders tell_time answers.
	ClockFormat = "2006-01-02 15:04:05"
)
