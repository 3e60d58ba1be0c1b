package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/gng-assistant/internal/domain"
	"github.com/doeshing/gng-assistant/internal/ports"
)

// Service runs one utterance at a time through gate, resolver and executor,
// and owns the memory document for its lifetime.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Resolver       ports.IntentResolver
	Executor       ports.ActionExecutor
	Memory         ports.MemoryStore
	History        ports.HistoryRepository
	Logger         ports.Logger

	// NewID and Now default to uuid.NewString and time.Now.
	NewID func() string
	Now   func() time.Time

	mu     sync.Mutex
	memory domain.Memory
}

// ProcessText handles one utterance. The error is reserved for missing
// collaborators and configuration failures; every other outcome is a TurnResult.
func (s *Service) ProcessText(ctx context.Context, text string) (domain.TurnResult, error) {
	if s.ConfigProvider == nil || s.Resolver == nil || s.Executor == nil || s.Memory == nil || s.Logger == nil {
		return domain.TurnResult{}, errors.New("session.Service dependencies not satisfied")
	}
	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return domain.TurnResult{}, fmt.Errorf("load config: %w", err)
	}
	return s.ProcessWithConfig(ctx, text, cfg), nil
}

// ProcessWithConfig handles one utterance against an explicit config snapshot.
func (s *Service) ProcessWithConfig(ctx context.Context, text string, cfg domain.Config) domain.TurnResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	command, ok := Gate(text, cfg)
	if !ok {
		s.Logger.Debug("wake word not detected", map[string]interface{}{"wake_word": cfg.GetWakeWord()})
		return domain.NotHandled(domain.ReasonWakeWordNotDetected)
	}
	if command == "" {
		return domain.Acknowledged()
	}

	turnID := s.newID()
	parsed := s.Resolver.Resolve(ctx, command, cfg)
	outcome := s.Executor.Execute(ctx, parsed.Intent, parsed.Entities, cfg)

	s.Logger.Info("turn resolved", map[string]interface{}{
		"turn_id":  turnID,
		"intent":   parsed.Intent,
		"strategy": string(parsed.Strategy),
		"ok":       outcome.OK,
		"dry_run":  cfg.IsDryRun(),
	})

	s.remember(ctx, command, parsed)
	s.record(ctx, domain.NewHistoryRecord(turnID, s.now(), command, parsed, outcome, cfg.IsDryRun()))

	return domain.TurnResult{
		TurnID:  turnID,
		Handled: true,
		Parsed:  &parsed,
		Result:  &outcome,
	}
}

// Gate applies the wake-word rule. It returns the lower-cased command with
// the first occurrence of the wake word removed, and whether the turn passes.
func Gate(text string, cfg domain.Config) (string, bool) {
	lowered := strings.ToLower(text)
	if cfg.AlwaysListen {
		return strings.TrimSpace(lowered), true
	}
	wake := cfg.GetWakeWord()
	if !strings.Contains(lowered, wake) {
		return "", false
	}
	return strings.TrimSpace(strings.Replace(lowered, wake, "", 1)), true
}

// MemorySnapshot returns a copy of the in-process memory document.
func (s *Service) MemorySnapshot(ctx context.Context) domain.Memory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadedMemory(ctx).Clone()
}

// remember overwrites last_command and flushes memory, whatever the outcome.
func (s *Service) remember(ctx context.Context, command string, parsed domain.ParseResult) {
	mem := s.loadedMemory(ctx)
	mem.SetLastCommand(domain.LastCommand{
		Text:     command,
		Intent:   parsed.Intent,
		Entities: parsed.Entities.Clone(),
	})
	if err := s.Memory.Save(ctx, mem); err != nil {
		s.Logger.Error("memory flush failed", err, nil)
	}
}

func (s *Service) loadedMemory(ctx context.Context) domain.Memory {
	if s.memory != nil {
		return s.memory
	}
	mem, err := s.Memory.Load(ctx)
	if err != nil {
		s.Logger.Warn("memory load failed, starting empty", map[string]interface{}{"error": err.Error()})
		mem = nil
	}
	if mem == nil {
		mem = domain.Memory{}
	}
	s.memory = mem
	return s.memory
}

func (s *Service) record(ctx context.Context, rec domain.HistoryRecord) {
	if s.History == nil {
		return
	}
	if err := s.History.Save(ctx, rec); err != nil {
		s.Logger.Warn("history save failed", map[string]interface{}{
			"turn_id": rec.ID,
			"error":   err.Error(),
		})
	}
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
