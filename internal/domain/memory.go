package domain

// MemoryKeyLastCommand holds the most recent resolved command.
const MemoryKeyLastCommand = "last_command"

// Memory is the key-value document persisted across turns. Keys other
// than last_command are preserved untouched.
type Memory map[string]any

// LastCommand is the record of the latest resolved turn.
type LastCommand struct {
	Text     string   `json:"text"`
	Intent   string   `json:"intent"`
	Entities Entities `json:"entities"`
}

// SetLastCommand overwrites the last_command entry.
func (m Memory) SetLastCommand(lc LastCommand) {
	m[MemoryKeyLastCommand] = lc
}

// LastCommand returns the stored last_command, whether it was set in this
// process or decoded from the memory file.
func (m Memory) LastCommand() (LastCommand, bool) {
	switch v := m[MemoryKeyLastCommand].(type) {
	case LastCommand:
		return v, true
	case map[string]any:
		lc := LastCommand{}
		lc.Text, _ = v["text"].(string)
		lc.Intent, _ = v["intent"].(string)
		if ents, ok := v["entities"].(map[string]any); ok {
			lc.Entities = Entities(ents)
		}
		return lc, true
	default:
		return LastCommand{}, false
	}
}

// Clone copies the top level of the document.
func (m Memory) Clone() Memory {
	out := make(Memory, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
