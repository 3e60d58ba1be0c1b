package cli

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/doeshing/gng-assistant/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SimulatedPrompt is shown when the source reads typed text instead of audio.
const SimulatedPrompt = "(simulated mic) "

// Renderer owns all console output of an interactive session. It is the
// single consumer of the worker's event channel.
type Renderer struct {
	out      io.Writer
	wakeWord func() string
	spinner  *Spinner
}

// NewRenderer builds a renderer. wakeWord is read per result so config
// reloads show up in hints; spinner may be nil.
func NewRenderer(out io.Writer, wakeWord func() string, spinner *Spinner) *Renderer {
	return &Renderer{out: out, wakeWord: wakeWord, spinner: spinner}
}

// Consume renders events until the channel is closed.
func (r *Renderer) Consume(events <-chan domain.Event) error {
	for ev := range events {
		r.Render(ev)
	}
	r.stopSpinner()
	return nil
}

// Render prints one event.
func (r *Renderer) Render(ev domain.Event) {
	switch ev.Kind {
	case domain.EventStatus:
		switch ev.Status {
		case domain.StatusSimulated:
			fmt.Fprint(r.out, SimulatedPrompt)
		case domain.StatusProcessing:
			if r.spinner != nil {
				r.spinner.Start("thinking")
			}
		}
	case domain.EventResult:
		r.stopSpinner()
		RenderTurn(r.out, ev.Result, r.wakeWord())
	}
}

func (r *Renderer) stopSpinner() {
	if r.spinner != nil {
		r.spinner.Stop()
	}
}

// RenderTurn prints the one-line summary of an interactive turn.
func RenderTurn(out io.Writer, result domain.TurnResult, wakeWord string) {
	if !result.Handled {
		fmt.Fprintf(out, "(wake word not detected - say: %s )\n", wakeWord)
		return
	}
	if result.Result == nil {
		fmt.Fprintln(out, "Response:", result.Response)
		return
	}
	raw, err := json.Marshal(result.Result)
	if err != nil {
		fmt.Fprintln(out, "Response:", result.Result.SpokenMessage())
		return
	}
	fmt.Fprintln(out, "Response:", string(raw))
}

// RenderJSON prints v as indented JSON.
func RenderJSON(out io.Writer, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(raw))
	return err
}
