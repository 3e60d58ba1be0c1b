package nlu

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/gng-assistant/internal/domain"
	"github.com/doeshing/gng-assistant/internal/pkg/logger"
)

// scriptedRunner answers decider and extraction prompts independently.
type scriptedRunner struct {
	available  bool
	decider    string
	extraction string
	err        error
	calls      []string
}

func (s *scriptedRunner) Available(domain.Config) bool { return s.available }

func (s *scriptedRunner) Run(_ context.Context, prompt string, _ domain.Config) (string, error) {
	if strings.Contains(prompt, `top-level key "action"`) {
		s.calls = append(s.calls, "decider")
		return s.decider, s.err
	}
	s.calls = append(s.calls, "extraction")
	return s.extraction, s.err
}

func newTestResolver(runner *scriptedRunner) *Resolver {
	return NewResolver(runner, nil, logger.NewNop())
}

func llmConfig(decider bool) domain.Config {
	return domain.Config{UseOllama: true, UseOllamaDecider: decider}
}

func TestResolverDeciderFirst(t *testing.T) {
	runner := &scriptedRunner{
		available: true,
		decider:   `{"action": {"type": "open_url", "url": "https://example.com"}}`,
		extraction: `{"intent": "open_url", "entities": {"url": "https://wrong.example"}}`,
	}
	got := newTestResolver(runner).Resolve(context.Background(), "open example", llmConfig(true))

	assert.Equal(t, domain.IntentExecute, got.Intent)
	assert.Equal(t, domain.StrategyDecider, got.Strategy)
	action, ok := got.Entities.Action()
	require.True(t, ok)
	assert.Equal(t, "open_url", action.Type())
	assert.Equal(t, []string{"decider"}, runner.calls)
}

func TestResolverDeciderShapeFallsThroughToExtraction(t *testing.T) {
	runner := &scriptedRunner{
		available:  true,
		decider:    `{"action": "open_url"}`,
		extraction: `{"intent": "tell_time", "entities": {}}`,
	}
	got := newTestResolver(runner).Resolve(context.Background(), "what time", llmConfig(true))

	assert.Equal(t, domain.IntentTellTime, got.Intent)
	assert.Equal(t, domain.StrategyExtraction, got.Strategy)
	assert.Equal(t, []string{"decider", "extraction"}, runner.calls)
}

func TestResolverExtractionShapeFailures(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{name: "missing entities", output: `{"intent": "open_url"}`},
		{name: "entities not object", output: `{"intent": "open_url", "entities": "github"}`},
		{name: "intent not string", output: `{"intent": 3, "entities": {}}`},
		{name: "empty intent", output: `{"intent": "", "entities": {}}`},
		{name: "prose", output: `I think you want GitHub.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &scriptedRunner{available: true, extraction: tt.output}
			got := newTestResolver(runner).Resolve(context.Background(), "open github", llmConfig(false))
			assert.Equal(t, domain.StrategyRules, got.Strategy)
			assert.Equal(t, domain.IntentOpenURL, got.Intent)
		})
	}
}

func TestResolverDeciderRequiresUseOllama(t *testing.T) {
	runner := &scriptedRunner{available: true, decider: `{"action": {"type": "tell_time"}}`}
	cfg := domain.Config{UseOllamaDecider: true}

	got := newTestResolver(runner).Resolve(context.Background(), "open github", cfg)
	assert.Equal(t, domain.StrategyRules, got.Strategy)
	assert.Empty(t, runner.calls)
}

func TestResolverUnavailableMatchesRuleFixtures(t *testing.T) {
	texts := []string{"open github", "open spotify", "what time is it", "hello there", "open microsoft store"}
	unavailable := newTestResolver(&scriptedRunner{available: false})
	offline := newTestResolver(&scriptedRunner{available: true})

	for _, text := range texts {
		withDecider := unavailable.Resolve(context.Background(), text, llmConfig(true))
		withoutLLM := offline.Resolve(context.Background(), text, domain.Config{})
		assert.Equal(t, withoutLLM, withDecider, text)
	}
}

func TestResolverRunnerErrorsAreAbsorbed(t *testing.T) {
	runner := &scriptedRunner{available: true, err: errors.New("exec: killed")}
	got := newTestResolver(runner).Resolve(context.Background(), "open github", llmConfig(true))

	assert.Equal(t, domain.StrategyRules, got.Strategy)
	assert.Equal(t, []string{"decider", "extraction"}, runner.calls)
}

func TestResolverAlwaysReturnsIntent(t *testing.T) {
	inputs := []string{"", " ", "{", "}{", "open", "what", "time", "\x00\xff", strings.Repeat("open ", 200)}
	r := newTestResolver(&scriptedRunner{available: true, decider: "}{", extraction: "{"})
	for _, in := range inputs {
		got := r.Resolve(context.Background(), in, llmConfig(true))
		assert.NotEmpty(t, got.Intent, "input %q", in)
		assert.NotNil(t, got.Entities, "input %q", in)
	}
}

func TestPromptsCarryUserText(t *testing.T) {
	assert.True(t, strings.HasSuffix(deciderPrompt("open github"), "Input: \"open github\"\nOutput:"))
	assert.Contains(t, extractionPrompt("what time"), `"intent" (string)`)
}
