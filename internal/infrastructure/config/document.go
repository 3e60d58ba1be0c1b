package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/gng-assistant/internal/domain"
)

// Document is the flat key/value form of the configuration file. Values
// are bool, string, int or []string after ParseDocument.
type Document map[string]any

// ParseDocument decodes YAML into a Document, coercing "true"/"false"
// strings to booleans and flattening lists to strings.
func ParseDocument(data []byte) (Document, error) {
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	doc := make(Document, len(raw))
	for key, value := range raw {
		if v, ok := normalize(value); ok {
			doc[key] = v
		}
	}
	return doc, nil
}

// normalize keeps scalars and single-level lists; nested mappings are dropped.
func normalize(value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return "", true
	case string:
		return coerceBool(v), true
	case bool, int:
		return v, true
	case float64:
		return v, true
	case []string:
		return append([]string(nil), v...), true
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			items = append(items, fmt.Sprint(item))
		}
		return items, true
	default:
		return nil, false
	}
}

func coerceBool(s string) any {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true
	case "false":
		return false
	default:
		return s
	}
}

// Merge layers values over the document. Override values are normalized the
// same way as file values.
func (d Document) Merge(values map[string]any) Document {
	for key, value := range values {
		if v, ok := normalize(value); ok {
			d[key] = v
		}
	}
	return d
}

// Build converts the document to a typed Config. Missing keys take their
// defaults; keys present with the wrong type are reported.
func (d Document) Build() (domain.Config, error) {
	cfg := domain.Config{
		LLMModel:   domain.DefaultLLMModel,
		LLMTimeout: int(domain.DefaultLLMTimeout.Seconds()),
		WakeWord:   domain.DefaultWakeWord,
	}
	var errs []string
	boolField := func(key string, dst *bool) {
		if v, ok := d[key]; ok && v != "" {
			b, isBool := v.(bool)
			if !isBool {
				errs = append(errs, fmt.Sprintf("%s: want bool, got %v", key, v))
				return
			}
			*dst = b
		}
	}
	stringField := func(key string, dst *string) {
		if v, ok := d[key]; ok {
			switch s := v.(type) {
			case string:
				*dst = s
			case []string:
				errs = append(errs, fmt.Sprintf("%s: want string, got list", key))
			default:
				*dst = fmt.Sprint(s)
			}
		}
	}
	intField := func(key string, dst *int) {
		v, ok := d[key]
		if !ok {
			return
		}
		switch n := v.(type) {
		case int:
			*dst = n
		case float64:
			*dst = int(n)
		case string:
			parsed, err := strconv.Atoi(strings.TrimSpace(n))
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: want integer, got %q", key, n))
				return
			}
			*dst = parsed
		default:
			errs = append(errs, fmt.Sprintf("%s: want integer, got %v", key, v))
		}
	}

	boolField(domain.KeyAllowExecution, &cfg.AllowExecution)
	boolField(domain.KeyAllowTTS, &cfg.AllowTTS)
	boolField(domain.KeyUseOllama, &cfg.UseOllama)
	boolField(domain.KeyUseOllamaDecider, &cfg.UseOllamaDecider)
	boolField(domain.KeyAlwaysListen, &cfg.AlwaysListen)
	boolField(domain.KeyDebugLLM, &cfg.DebugLLM)
	stringField(domain.KeyOllamaPath, &cfg.OllamaPath)
	stringField(domain.KeyLLMModel, &cfg.LLMModel)
	stringField(domain.KeyWakeWord, &cfg.WakeWord)
	stringField(domain.KeyMemoryFile, &cfg.MemoryFile)
	stringField(domain.KeyHistoryFile, &cfg.HistoryFile)
	stringField(domain.KeyLogFile, &cfg.LogFile)
	stringField(domain.KeySpeechCommand, &cfg.SpeechCommand)
	intField(domain.KeyLLMTimeout, &cfg.LLMTimeout)

	if v, ok := d[domain.KeyAllowedCommands]; ok {
		switch list := v.(type) {
		case []string:
			cfg.AllowedCommands = append([]string(nil), list...)
		case string:
			if list != "" {
				cfg.AllowedCommands = []string{list}
			}
		default:
			errs = append(errs, fmt.Sprintf("%s: want list, got %v", domain.KeyAllowedCommands, v))
		}
	}

	if len(errs) > 0 {
		return domain.Config{}, fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}
