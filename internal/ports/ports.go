// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The session loop, resolver and executor depend only on
// these interfaces, so the model process, the operating system launcher, speech
// output and storage can each be replaced by fakes in tests.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., ModelRunner, Launcher)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"

	"github.com/doeshing/gng-assistant/internal/domain"
)

// ConfigProvider returns the configuration snapshot for the next turn.
// Implementations typically read from ~/.gng/config.yaml and layer overrides on top.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// MemoryStore persists the memory document. Only the session loop touches it.
type MemoryStore interface {
	Load(context.Context) (domain.Memory, error)
	Save(context.Context, domain.Memory) error
}

// HistoryRepository records resolved turns for later inspection.
type HistoryRepository interface {
	Save(context.Context, domain.HistoryRecord) error
	Records(ctx context.Context, limit int) ([]domain.HistoryRecord, error)
	Clear(context.Context) error
	Close() error
}

// IntentResolver turns a normalized command into a ParseResult. It never fails:
// every internal failure degrades to the next strategy.
type IntentResolver interface {
	Resolve(ctx context.Context, text string, cfg domain.Config) domain.ParseResult
}

// ActionExecutor maps a ParseResult to an effect, or a dry-run description of it.
type ActionExecutor interface {
	Execute(ctx context.Context, intent string, entities domain.Entities, cfg domain.Config) domain.ActionOutcome
}

// ModelRunner invokes the external model executable with a prompt on stdin.
type ModelRunner interface {
	// Available reports whether the executable can be found for cfg.
	Available(cfg domain.Config) bool
	// Run returns the raw model output. Any failure is reported as an error.
	Run(ctx context.Context, prompt string, cfg domain.Config) (string, error)
}

// Launcher performs live operating-system side effects.
type Launcher interface {
	OpenURL(ctx context.Context, target string) error
	LaunchApp(ctx context.Context, name string) error
}

// Speaker renders text as speech. It never fails back into the caller;
// a missing engine degrades to a log line.
type Speaker interface {
	Speak(ctx context.Context, text string)
	Close() error
}

// UtteranceSource yields raw text per request. An empty string means nothing
// was heard; io.EOF means the input stream is closed.
type UtteranceSource interface {
	Capture(ctx context.Context, status func(domain.SourceStatus)) (string, error)
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
