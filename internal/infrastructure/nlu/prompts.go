package nlu

import "fmt"

const deciderPreamble = `You convert a user's short command into a single JSON object describing the action to take. Only output valid JSON.
The object must have a top-level key "action" whose value is an object with a "type" field, one of: "open_url", "open_app", "tell_time", "none".
Add the arguments the type needs: "url" for open_url, "app" for open_app.

Input: "Open GitHub in the browser"
Output: {"action": {"type": "open_url", "url": "https://github.com"}}

`

const extractionPreamble = `You are a JSON extraction assistant. Given a user command, extract the intent and any entities and return a single JSON object with the keys "intent" (string) and "entities" (object). Only output valid JSON.

Input: "Open GitHub in the browser"
Output: {"intent": "open_url", "entities": {"url": "https://github.com"}}

`

func deciderPrompt(text string) string {
	return deciderPreamble + fmt.Sprintf("Input: %q\nOutput:", text)
}

func extractionPrompt(text string) string {
	return extractionPreamble + fmt.Sprintf("Input: %q\nOutput:", text)
}
