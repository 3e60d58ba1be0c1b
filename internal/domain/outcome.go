package domain

// DryRunPrefix marks descriptions of actions that were not performed.
const DryRunPrefix = "(dry-run)"

// Executor error codes.
const (
	ErrCodeNoIntent          = "no_intent"
	ErrCodeNoURL             = "no_url"
	ErrCodeNoApp             = "no_app_specified"
	ErrCodeUnknownAppMapping = "unknown_app_mapping"
	ErrCodeUnknownActionType = "unknown_action_type"
	ErrCodeUnknownIntent     = "unknown_intent"
)

// ActionOutcome is the executor's record of one action. Exactly one of
// Action, Time or Error is populated; OK=false always pairs with Error.
type ActionOutcome struct {
	OK     bool   `json:"ok"`
	Action string `json:"action,omitempty"`
	Time   string `json:"time,omitempty"`
	Error  string `json:"error,omitempty"`

	// Diagnostic context attached to some failures.
	Intent   string `json:"intent,omitempty"`
	Mapping  any    `json:"mapping,omitempty"`
	Rejected Action `json:"rejected_action,omitempty"`
}

// Performed records a completed (or described) action.
func Performed(action string) ActionOutcome {
	return ActionOutcome{OK: true, Action: action}
}

// ToldTime records a tell_time answer.
func ToldTime(ts string) ActionOutcome {
	return ActionOutcome{OK: true, Time: ts}
}

// Failed records a failure with an error code or message.
func Failed(code string) ActionOutcome {
	return ActionOutcome{OK: false, Error: code}
}

// SpokenMessage derives the short phrase handed to the output sink.
func (o ActionOutcome) SpokenMessage() string {
	switch {
	case o.OK && o.Action != "":
		return o.Action
	case o.OK && o.Time != "":
		return "The time is " + o.Time
	case !o.OK:
		return "Error: " + o.Error
	default:
		return ""
	}
}
