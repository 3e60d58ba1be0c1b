package cli

import (
	"github.com/spf13/pflag"

	"github.com/doeshing/gng-assistant/internal/domain"
)

// Flag names for configuration overrides.
const (
	flagAllowExec        = "allow-exec"
	flagAllowTTS         = "allow-tts"
	flagUseOllama        = "use-ollama"
	flagUseOllamaDecider = "use-ollama-decider"
	flagOllamaPath       = "ollama-path"
	flagLLMModel         = "llm-model"
	flagLLMTimeout       = "llm-timeout"
	flagAlwaysListen     = "always-listen"
	flagWakeWord         = "wake-word"
	flagAllowedCommand   = "allowed-command"
	flagDebugLLM         = "debug-llm"
)

// Notices printed when overrides are implied rather than requested.
const (
	NoticeDefaultBundle   = "No override flags given: enabling the model decider and execution by default."
	NoticeDeciderImpliesX = "Model decider requested: enabling execution. Pass --allow-exec=false to keep dry-run."
)

// DefaultBundle is applied when a mode runs without any override flag.
func DefaultBundle() domain.Overrides {
	return domain.Overrides{}.
		Set(domain.KeyUseOllama, true).
		Set(domain.KeyUseOllamaDecider, true).
		Set(domain.KeyAllowExecution, true)
}

// overrideFlags binds one flag per configuration key.
type overrideFlags struct {
	allowExec, allowTTS, useOllama, useDecider, alwaysListen, debugLLM bool
	ollamaPath, llmModel, wakeWord                                      string
	llmTimeout                                                          int
	allowedCommands                                                     []string
}

func (f *overrideFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&f.allowExec, flagAllowExec, false, "Allow opening URLs and launching apps (otherwise dry-run)")
	fs.BoolVar(&f.allowTTS, flagAllowTTS, false, "Speak outcomes through the local speech engine")
	fs.BoolVar(&f.useOllama, flagUseOllama, false, "Use a local Ollama model for intent parsing")
	fs.BoolVar(&f.useDecider, flagUseOllamaDecider, false, "Let the model decide actions (JSON action objects); implies --allow-exec")
	fs.StringVar(&f.ollamaPath, flagOllamaPath, "", "Full path to the ollama executable (overrides PATH)")
	fs.StringVar(&f.llmModel, flagLLMModel, domain.DefaultLLMModel, "Model name to request from Ollama")
	fs.IntVar(&f.llmTimeout, flagLLMTimeout, int(domain.DefaultLLMTimeout.Seconds()), "Seconds before a model call is abandoned")
	fs.BoolVar(&f.alwaysListen, flagAlwaysListen, false, "Process every utterance without the wake word")
	fs.StringVar(&f.wakeWord, flagWakeWord, domain.DefaultWakeWord, "Wake phrase that must prefix a command")
	fs.StringSliceVar(&f.allowedCommands, flagAllowedCommand, nil, "Literal fallback intent (repeatable)")
	fs.BoolVar(&f.debugLLM, flagDebugLLM, false, "Log raw model output")
}

// resolve returns the overrides for the explicitly set flags. With
// applyBundle set and no flag given, the default bundle is returned instead.
func (f *overrideFlags) resolve(fs *pflag.FlagSet, applyBundle bool) (domain.Overrides, []string) {
	bindings := []struct {
		flag  string
		key   string
		value any
	}{
		{flagAllowExec, domain.KeyAllowExecution, f.allowExec},
		{flagAllowTTS, domain.KeyAllowTTS, f.allowTTS},
		{flagUseOllama, domain.KeyUseOllama, f.useOllama},
		{flagUseOllamaDecider, domain.KeyUseOllamaDecider, f.useDecider},
		{flagOllamaPath, domain.KeyOllamaPath, f.ollamaPath},
		{flagLLMModel, domain.KeyLLMModel, f.llmModel},
		{flagLLMTimeout, domain.KeyLLMTimeout, f.llmTimeout},
		{flagAlwaysListen, domain.KeyAlwaysListen, f.alwaysListen},
		{flagWakeWord, domain.KeyWakeWord, f.wakeWord},
		{flagAllowedCommand, domain.KeyAllowedCommands, f.allowedCommands},
		{flagDebugLLM, domain.KeyDebugLLM, f.debugLLM},
	}

	overrides := domain.Overrides{}
	for _, b := range bindings {
		if fs.Changed(b.flag) {
			overrides.Set(b.key, b.value)
		}
	}

	if len(overrides) == 0 {
		if applyBundle {
			return DefaultBundle(), []string{NoticeDefaultBundle}
		}
		return overrides, nil
	}

	var notices []string
	if decider, _ := overrides.Bool(domain.KeyUseOllamaDecider); decider && !fs.Changed(flagAllowExec) {
		overrides.Set(domain.KeyAllowExecution, true)
		notices = append(notices, NoticeDeciderImpliesX)
	}
	return overrides, notices
}
