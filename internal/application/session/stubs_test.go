package session

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/doeshing/gng-assistant/internal/domain"
)

type stubConfigProvider struct {
	cfg domain.Config
	err error
}

func (s stubConfigProvider) Load(context.Context) (domain.Config, error) {
	return s.cfg, s.err
}

type countingResolver struct {
	mu     sync.Mutex
	calls  []string
	result domain.ParseResult
}

func (r *countingResolver) Resolve(_ context.Context, text string, _ domain.Config) domain.ParseResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, text)
	return r.result
}

type stubExecutor struct {
	outcome domain.ActionOutcome
	calls   int
}

func (e *stubExecutor) Execute(context.Context, string, domain.Entities, domain.Config) domain.ActionOutcome {
	e.calls++
	return e.outcome
}

type memStore struct {
	mu      sync.Mutex
	initial domain.Memory
	saved   []domain.Memory
	loadErr error
	saveErr error
}

func (m *memStore) Load(context.Context) (domain.Memory, error) {
	return m.initial.Clone(), m.loadErr
}

func (m *memStore) Save(_ context.Context, mem domain.Memory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, mem.Clone())
	return m.saveErr
}

func (m *memStore) saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

type historyStub struct {
	records []domain.HistoryRecord
	err     error
}

func (h *historyStub) Save(_ context.Context, rec domain.HistoryRecord) error {
	h.records = append(h.records, rec)
	return h.err
}

func (h *historyStub) Records(context.Context, int) ([]domain.HistoryRecord, error) {
	return h.records, nil
}

func (h *historyStub) Clear(context.Context) error { return nil }

func (h *historyStub) Close() error { return nil }

// scriptedSource replays fixed utterances then reports io.EOF.
type scriptedSource struct {
	lines []string
	err   error
}

func (s *scriptedSource) Capture(ctx context.Context, status func(domain.SourceStatus)) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if status != nil {
		status(domain.StatusSimulated)
	}
	if len(s.lines) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

// blockingSource waits for cancellation.
type blockingSource struct{}

func (blockingSource) Capture(ctx context.Context, _ func(domain.SourceStatus)) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

var errMicUnplugged = errors.New("microphone unplugged")
