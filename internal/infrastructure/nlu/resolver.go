package nlu

import (
	"context"

	"github.com/doeshing/gng-assistant/internal/domain"
	"github.com/doeshing/gng-assistant/internal/infrastructure/llm"
	"github.com/doeshing/gng-assistant/internal/pkg/logger"
	"github.com/doeshing/gng-assistant/internal/ports"
)

// strategy is one fallible resolution path.
type strategy struct {
	name    domain.Strategy
	enabled func(domain.Config) bool
	resolve func(context.Context, string, domain.Config) (domain.ParseResult, error)
}

// Resolver tries the decider, then extraction, then the rule parser. The
// rule parser is terminal, so Resolve always returns a result.
type Resolver struct {
	client *llm.Client
	rules  *RuleParser
	logger ports.Logger
	chain  []strategy
}

// NewResolver wires the strategy chain around a model runner.
func NewResolver(runner ports.ModelRunner, rules *RuleParser, log ports.Logger) *Resolver {
	if rules == nil {
		rules = NewRuleParser(DefaultTables())
	}
	if log == nil {
		log = logger.NewNop()
	}
	r := &Resolver{
		client: &llm.Client{Runner: runner, Logger: log},
		rules:  rules,
		logger: log,
	}
	r.chain = []strategy{
		{name: domain.StrategyDecider, enabled: domain.Config.DeciderEnabled, resolve: r.decide},
		{name: domain.StrategyExtraction, enabled: domain.Config.LLMEnabled, resolve: r.extract},
	}
	return r
}

// Resolve implements ports.IntentResolver.
func (r *Resolver) Resolve(ctx context.Context, text string, cfg domain.Config) domain.ParseResult {
	for _, s := range r.chain {
		if !s.enabled(cfg) {
			continue
		}
		result, err := s.resolve(ctx, text, cfg)
		if err == nil {
			return result
		}
		r.logger.Debug("resolution strategy failed", map[string]interface{}{
			"strategy": string(s.name),
			"error":    err.Error(),
		})
	}
	return r.rules.Parse(text, cfg)
}

// decide asks the model for a ready-made action object.
func (r *Resolver) decide(ctx context.Context, text string, cfg domain.Config) (domain.ParseResult, error) {
	obj, err := r.client.AskObject(ctx, deciderPrompt(text), cfg)
	if err != nil {
		return domain.ParseResult{}, err
	}
	action, ok := obj[domain.EntityAction].(map[string]any)
	if !ok {
		return domain.ParseResult{}, llm.Shape("action is %T, want object", obj[domain.EntityAction])
	}
	return domain.ParseResult{
		Intent:   domain.IntentExecute,
		Entities: domain.Entities{domain.EntityAction: domain.Action(action)},
		Strategy: domain.StrategyDecider,
	}, nil
}

// extract asks the model for an intent and entities directly.
func (r *Resolver) extract(ctx context.Context, text string, cfg domain.Config) (domain.ParseResult, error) {
	obj, err := r.client.AskObject(ctx, extractionPrompt(text), cfg)
	if err != nil {
		return domain.ParseResult{}, err
	}
	intent, ok := obj["intent"].(string)
	if !ok || intent == "" {
		return domain.ParseResult{}, llm.Shape("intent is %T, want non-empty string", obj["intent"])
	}
	entities, ok := obj["entities"].(map[string]any)
	if !ok {
		return domain.ParseResult{}, llm.Shape("entities is %T, want object", obj["entities"])
	}
	return domain.ParseResult{
		Intent:   intent,
		Entities: domain.Entities(entities),
		Strategy: domain.StrategyExtraction,
	}, nil
}

var _ ports.IntentResolver = (*Resolver)(nil)
