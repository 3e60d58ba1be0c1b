package domain

import (
	"errors"
	"fmt"
)

// AppKind discriminates the AppTarget variants.
type AppKind string

const (
	// AppKindProtocol is opened through the platform URI handler.
	AppKindProtocol AppKind = "protocol"
	// AppKindApp is launched as a named executable.
	AppKindApp AppKind = "app"
)

// AppTarget is a tagged union: Protocol(uri) or App(name).
// The JSON shape {"type": ..., "value": ...} is what models are prompted with.
type AppTarget struct {
	Kind  AppKind `json:"type"`
	Value string  `json:"value"`
}

// ProtocolTarget builds the Protocol variant.
func ProtocolTarget(uri string) AppTarget {
	return AppTarget{Kind: AppKindProtocol, Value: uri}
}

// NamedApp builds the App variant.
func NamedApp(name string) AppTarget {
	return AppTarget{Kind: AppKindApp, Value: name}
}

func (t AppTarget) String() string {
	return t.Value
}

// ErrUnknownAppMapping reports an app value matching no AppTarget variant.
var ErrUnknownAppMapping = errors.New("unknown app mapping")

// ParseAppTarget decodes an app entity at the boundary. Plain strings are
// the App variant; objects must carry a known type and a string value.
func ParseAppTarget(v any) (AppTarget, error) {
	switch t := v.(type) {
	case AppTarget:
		return validTarget(t)
	case *AppTarget:
		if t == nil {
			return AppTarget{}, ErrUnknownAppMapping
		}
		return validTarget(*t)
	case string:
		if t == "" {
			return AppTarget{}, ErrUnknownAppMapping
		}
		return NamedApp(t), nil
	case map[string]any:
		kind, _ := t["type"].(string)
		value, _ := t["value"].(string)
		return validTarget(AppTarget{Kind: AppKind(kind), Value: value})
	default:
		return AppTarget{}, fmt.Errorf("%w: %T", ErrUnknownAppMapping, v)
	}
}

func validTarget(t AppTarget) (AppTarget, error) {
	switch t.Kind {
	case AppKindProtocol, AppKindApp:
		if t.Value == "" {
			return AppTarget{}, fmt.Errorf("%w: empty value", ErrUnknownAppMapping)
		}
		return t, nil
	default:
		return AppTarget{}, fmt.Errorf("%w: type %q", ErrUnknownAppMapping, t.Kind)
	}
}

// Action kinds a decider may emit.
const (
	ActionOpenURL  = "open_url"
	ActionOpenApp  = "open_app"
	ActionTellTime = "tell_time"
	ActionNone     = "none"
)

// Action is the object returned by the decider path: a "type" plus
// type-specific fields such as "url" or "app".
type Action map[string]any

// Type returns the action kind.
func (a Action) Type() string {
	s, _ := a["type"].(string)
	return s
}

// URL returns a non-empty url field.
func (a Action) URL() (string, bool) {
	return stringField(a, EntityURL)
}

// App returns the raw app field.
func (a Action) App() (any, bool) {
	return presentField(a, EntityApp)
}
