package domain

import "time"

// HistoryRecord captures one resolved and executed turn.
type HistoryRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
	Intent    string    `json:"intent"`
	Strategy  Strategy  `json:"strategy"`
	DryRun    bool      `json:"dry_run"`
	Success   bool      `json:"success"`
	Action    string    `json:"action,omitempty"`
	Time      string    `json:"time,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// NewHistoryRecord flattens a turn into a history row.
func NewHistoryRecord(id string, at time.Time, text string, parsed ParseResult, outcome ActionOutcome, dryRun bool) HistoryRecord {
	return HistoryRecord{
		ID:        id,
		Timestamp: at,
		Text:      text,
		Intent:    parsed.Intent,
		Strategy:  parsed.Strategy,
		DryRun:    dryRun,
		Success:   outcome.OK,
		Action:    outcome.Action,
		Time:      outcome.Time,
		Error:     outcome.Error,
	}
}
