package domain

// Closed intent vocabulary. Any other intent string must come from the
// allowed_commands list or a model response.
const (
	IntentOpenURL  = "open_url"
	IntentOpenApp  = "open_app"
	IntentTellTime = "tell_time"
	IntentExecute  = "execute"
	IntentUnknown  = "unknown"
)

// Entity keys.
const (
	EntityURL    = "url"
	EntityApp    = "app"
	EntityAction = "action"
)

// Strategy names the resolver path that produced a ParseResult.
type Strategy string

const (
	StrategyDecider    Strategy = "decider"
	StrategyExtraction Strategy = "extraction"
	StrategyRules      Strategy = "rules"
)

// ParseResult is the resolver's structured reading of one command.
type ParseResult struct {
	Intent   string   `json:"intent"`
	Entities Entities `json:"entities"`
	Strategy Strategy `json:"strategy,omitempty"`
}

// Unknown is the terminal rule-based result.
func Unknown() ParseResult {
	return ParseResult{Intent: IntentUnknown, Entities: Entities{}, Strategy: StrategyRules}
}

// Entities are intent-dependent arguments. Values are either plain JSON
// values decoded from a model, or the typed AppTarget / Action values the
// rule-based parser and decider path store directly.
type Entities map[string]any

// URL returns a non-empty url entity.
func (e Entities) URL() (string, bool) {
	return stringField(e, EntityURL)
}

// App returns the raw app entity; callers decode it with ParseAppTarget.
func (e Entities) App() (any, bool) {
	return presentField(e, EntityApp)
}

// Action returns the decider action, if one is present and non-empty.
func (e Entities) Action() (Action, bool) {
	if e == nil {
		return nil, false
	}
	switch v := e[EntityAction].(type) {
	case Action:
		return v, len(v) > 0
	case map[string]any:
		return Action(v), len(v) > 0
	default:
		return nil, false
	}
}

// Clone copies the top level of the entity map.
func (e Entities) Clone() Entities {
	out := make(Entities, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

func stringField(m map[string]any, key string) (string, bool) {
	if m == nil {
		return "", false
	}
	s, ok := m[key].(string)
	return s, ok && s != ""
}

// presentField mirrors a truthiness check: nil, "" and empty maps count as absent.
func presentField(m map[string]any, key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false
	}
	switch t := v.(type) {
	case string:
		return v, t != ""
	case map[string]any:
		return v, len(t) > 0
	}
	return v, true
}
