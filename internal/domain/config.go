package domain

// Config mirrors ~/.gng/config.yaml after boolean coercion and overrides.
// A Config value is treated as immutable for the duration of one turn.
type Config struct {
	AllowExecution   bool     `yaml:"allow_execution" json:"allow_execution"`
	AllowTTS         bool     `yaml:"allow_tts" json:"allow_tts"`
	UseOllama        bool     `yaml:"use_ollama" json:"use_ollama"`
	UseOllamaDecider bool     `yaml:"use_ollama_decider" json:"use_ollama_decider"`
	OllamaPath       string   `yaml:"ollama_path" json:"ollama_path"`
	LLMModel         string   `yaml:"llm_model" json:"llm_model" validate:"required"`
	LLMTimeout       int      `yaml:"llm_timeout" json:"llm_timeout" validate:"gte=1"`
	AlwaysListen     bool     `yaml:"always_listen" json:"always_listen"`
	WakeWord         string   `yaml:"wake_word" json:"wake_word"`
	AllowedCommands  []string `yaml:"allowed_commands" json:"allowed_commands"`
	DebugLLM         bool     `yaml:"debug_llm" json:"debug_llm"`

	MemoryFile    string `yaml:"memory_file" json:"memory_file"`
	HistoryFile   string `yaml:"history_file" json:"history_file"`
	LogFile       string `yaml:"log_file" json:"log_file"`
	SpeechCommand string `yaml:"speech_command" json:"speech_command"`
}

// Recognized configuration keys.
const (
	KeyAllowExecution   = "allow_execution"
	KeyAllowTTS         = "allow_tts"
	KeyUseOllama        = "use_ollama"
	KeyUseOllamaDecider = "use_ollama_decider"
	KeyOllamaPath       = "ollama_path"
	KeyLLMModel         = "llm_model"
	KeyLLMTimeout       = "llm_timeout"
	KeyAlwaysListen     = "always_listen"
	KeyWakeWord         = "wake_word"
	KeyAllowedCommands  = "allowed_commands"
	KeyDebugLLM         = "debug_llm"
	KeyMemoryFile       = "memory_file"
	KeyHistoryFile      = "history_file"
	KeyLogFile          = "log_file"
	KeySpeechCommand    = "speech_command"
)

// Overrides holds caller-supplied values layered over the file configuration.
// Keys are the recognized configuration keys above.
type Overrides map[string]any

// Set records a value and returns the receiver for chaining.
func (o Overrides) Set(key string, value any) Overrides {
	o[key] = value
	return o
}

// Bool reports the boolean stored under key, if any.
func (o Overrides) Bool(key string) (bool, bool) {
	v, ok := o[key].(bool)
	return v, ok
}
