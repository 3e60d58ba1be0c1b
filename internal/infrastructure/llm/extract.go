package llm

import (
	"context"
	"errors"
	"regexp"

	jsoniter "github.com/json-iterator/go"

	"github.com/doeshing/gng-assistant/internal/domain"
	"github.com/doeshing/gng-assistant/internal/ports"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// objectSpan is greedy: it runs from the first '{' to the last '}'.
var objectSpan = regexp.MustCompile(`\{[\s\S]*\}`)

// ExtractObject decodes the first brace-delimited span of raw model output.
func ExtractObject(raw string) (map[string]any, error) {
	span := objectSpan.FindString(raw)
	if span == "" {
		return nil, fail(ReasonNoJSON, errors.New("no object in model output"))
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(span), &obj); err != nil {
		return nil, fail(ReasonMalformed, err)
	}
	if len(obj) == 0 {
		return nil, fail(ReasonShape, errors.New("empty object"))
	}
	return obj, nil
}

// Client runs prompts through a ModelRunner and returns decoded objects.
type Client struct {
	Runner ports.ModelRunner
	Logger ports.Logger
}

// AskObject is the single fallible operation both model strategies share:
// invoke, capture, extract, decode.
func (c *Client) AskObject(ctx context.Context, prompt string, cfg domain.Config) (map[string]any, error) {
	if c.Runner == nil || !c.Runner.Available(cfg) {
		return nil, fail(ReasonNotFound, errors.New("model executable not discoverable"))
	}
	raw, err := c.Runner.Run(ctx, prompt, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.DebugLLM && c.Logger != nil {
		c.Logger.Debug("raw model output", map[string]interface{}{
			"model":  cfg.GetLLMModel(),
			"output": raw,
		})
	}
	return ExtractObject(raw)
}
