package domain

// TurnResult is what the session loop reports for one utterance.
type TurnResult struct {
	TurnID   string         `json:"turn_id,omitempty"`
	Handled  bool           `json:"handled"`
	Reason   string         `json:"reason,omitempty"`
	Response string         `json:"response,omitempty"`
	Parsed   *ParseResult   `json:"parsed,omitempty"`
	Result   *ActionOutcome `json:"result,omitempty"`
}

// NotHandled is the gate-rejection result.
func NotHandled(reason string) TurnResult {
	return TurnResult{Handled: false, Reason: reason}
}

// Acknowledged is the result for a bare wake word.
func Acknowledged() TurnResult {
	return TurnResult{Handled: true, Response: AckResponse}
}

// SourceStatus is advisory state reported by an utterance source.
type SourceStatus string

const (
	StatusLoading    SourceStatus = "loading"
	StatusListening  SourceStatus = "listening"
	StatusSimulated  SourceStatus = "simulated"
	StatusProcessing SourceStatus = "processing"
	StatusIdle       SourceStatus = "idle"
)

// EventKind tags messages on the worker -> renderer queue.
type EventKind string

const (
	EventStatus     EventKind = "status"
	EventRecognized EventKind = "recognized"
	EventResult     EventKind = "result"
)

// Event is one message from a session worker to its single consumer.
// Payload fields are value copies; the consumer owns what it receives.
type Event struct {
	Kind   EventKind
	Status SourceStatus
	Text   string
	Result TurnResult
}
