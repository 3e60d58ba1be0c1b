package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/doeshing/gng-assistant/internal/domain"
	"github.com/doeshing/gng-assistant/internal/ports"
)

// Run is the session worker. It captures one utterance at a time from src
// and sends tagged events to out; it does not capture again until the
// previous turn's result has been received. out is closed on return.
// Run returns nil when the source is exhausted or ctx is cancelled.
func (s *Service) Run(ctx context.Context, src ports.UtteranceSource, out chan<- domain.Event) error {
	defer close(out)

	emit := func(ev domain.Event) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}
	status := func(st domain.SourceStatus) {
		emit(domain.Event{Kind: domain.EventStatus, Status: st})
	}

	for {
		if !emit(domain.Event{Kind: domain.EventStatus, Status: domain.StatusIdle}) {
			return nil
		}
		text, err := src.Capture(ctx, status)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case ctx.Err() != nil:
			return nil
		case err != nil:
			return fmt.Errorf("capture utterance: %w", err)
		}
		if text == "" {
			continue
		}

		if !emit(domain.Event{Kind: domain.EventRecognized, Text: text}) {
			return nil
		}
		if !emit(domain.Event{Kind: domain.EventStatus, Status: domain.StatusProcessing}) {
			return nil
		}
		result, err := s.ProcessText(ctx, text)
		if err != nil {
			return err
		}
		if !emit(domain.Event{Kind: domain.EventResult, Text: text, Result: result}) {
			return nil
		}
	}
}
