// Package stt provides utterance sources. LineSource stands in for a
// microphone by reading one utterance per line of text.
package stt

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/doeshing/gng-assistant/internal/domain"
	"github.com/doeshing/gng-assistant/internal/ports"
)

type line struct {
	text string
	err  error
}

// LineSource reads utterances from a text stream. Reads happen on a pump
// goroutine so Capture can honor context cancellation.
type LineSource struct {
	in io.Reader

	once  sync.Once
	lines chan line
	done  chan struct{}
	stop  sync.Once
}

// NewLineSource reads from in.
func NewLineSource(in io.Reader) *LineSource {
	return &LineSource{
		in:    in,
		lines: make(chan line),
		done:  make(chan struct{}),
	}
}

// Capture implements ports.UtteranceSource. It returns io.EOF once the
// stream is exhausted or the source is closed.
func (s *LineSource) Capture(ctx context.Context, status func(domain.SourceStatus)) (string, error) {
	if status != nil {
		status(domain.StatusSimulated)
	}
	s.once.Do(func() { go s.pump() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-s.done:
		return "", io.EOF
	case l, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		if l.err != nil {
			return "", l.err
		}
		return strings.TrimSpace(l.text), nil
	}
}

// Close stops the pump. A pump blocked inside Read exits when the
// underlying reader returns.
func (s *LineSource) Close() error {
	s.stop.Do(func() { close(s.done) })
	return nil
}

func (s *LineSource) pump() {
	defer close(s.lines)
	scanner := bufio.NewScanner(s.in)
	for scanner.Scan() {
		select {
		case s.lines <- line{text: scanner.Text()}:
		case <-s.done:
			return
		}
	}
	if err := scanner.Err(); err != nil {
		select {
		case s.lines <- line{err: err}:
		case <-s.done:
		}
	}
}

var _ ports.UtteranceSource = (*LineSource)(nil)
