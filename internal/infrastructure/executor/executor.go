package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doeshing/gng-assistant/internal/domain"
	"github.com/doeshing/gng-assistant/internal/pkg/logger"
	"github.com/doeshing/gng-assistant/internal/ports"
)

// Executor maps resolved commands to platform effects. With allow_execution
// off it only describes what it would do and never touches the launcher.
type Executor struct {
	launcher ports.Launcher
	speaker  ports.Speaker
	logger   ports.Logger
	now      func() time.Time
}

// Option customizes an Executor.
type Option func(*Executor)

// WithClock replaces the wall clock used by tell_time.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) {
		e.now = now
	}
}

// New builds an executor. speaker may be nil when speech is never wanted.
func New(launcher ports.Launcher, speaker ports.Speaker, log ports.Logger, opts ...Option) *Executor {
	if log == nil {
		log = logger.NewNop()
	}
	e := &Executor{
		launcher: launcher,
		speaker:  speaker,
		logger:   log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute implements ports.ActionExecutor.
func (e *Executor) Execute(ctx context.Context, intent string, entities domain.Entities, cfg domain.Config) domain.ActionOutcome {
	outcome := e.dispatch(ctx, intent, entities, cfg)
	if cfg.AllowTTS && e.speaker != nil {
		if msg := outcome.SpokenMessage(); msg != "" {
			e.speaker.Speak(ctx, msg)
		}
	}
	return outcome
}

func (e *Executor) dispatch(ctx context.Context, intent string, entities domain.Entities, cfg domain.Config) domain.ActionOutcome {
	if intent == "" {
		return domain.Failed(domain.ErrCodeNoIntent)
	}

	if action, ok := entities.Action(); ok {
		switch kind := action.Type(); kind {
		case domain.ActionOpenURL, domain.ActionOpenApp, domain.ActionTellTime:
			return e.branch(ctx, kind, domain.Entities(action), cfg)
		case domain.ActionNone:
			return domain.Performed("no action taken")
		default:
			outcome := domain.Failed(domain.ErrCodeUnknownActionType)
			outcome.Rejected = action
			return outcome
		}
	}

	switch intent {
	case domain.IntentOpenURL, domain.IntentOpenApp, domain.IntentTellTime:
		return e.branch(ctx, intent, entities, cfg)
	default:
		outcome := domain.Failed(domain.ErrCodeUnknownIntent)
		outcome.Intent = intent
		return outcome
	}
}

// branch handles one of the known kinds; args come from either the top-level
// entities or the decider's action object.
func (e *Executor) branch(ctx context.Context, kind string, args domain.Entities, cfg domain.Config) domain.ActionOutcome {
	switch kind {
	case domain.IntentOpenURL:
		return e.openURL(ctx, args, cfg)
	case domain.IntentOpenApp:
		return e.openApp(ctx, args, cfg)
	default:
		return domain.ToldTime(e.now().Format(domain.ClockFormat))
	}
}

func (e *Executor) openURL(ctx context.Context, args domain.Entities, cfg domain.Config) domain.ActionOutcome {
	url, ok := args.URL()
	if !ok {
		return domain.Failed(domain.ErrCodeNoURL)
	}
	if cfg.IsDryRun() {
		return domain.Performed(fmt.Sprintf("%s would open %s", domain.DryRunPrefix, url))
	}
	if err := e.live(func() error { return e.launcher.OpenURL(ctx, url) }); err != nil {
		e.logger.Warn("open url failed", map[string]interface{}{"url": url, "error": err.Error()})
		return domain.Failed(err.Error())
	}
	e.logger.Info("opened url", map[string]interface{}{"url": url})
	return domain.Performed("opened " + url)
}

func (e *Executor) openApp(ctx context.Context, args domain.Entities, cfg domain.Config) domain.ActionOutcome {
	raw, ok := args.App()
	if !ok {
		return domain.Failed(domain.ErrCodeNoApp)
	}
	target, err := domain.ParseAppTarget(raw)
	if err != nil {
		outcome := domain.Failed(domain.ErrCodeUnknownAppMapping)
		outcome.Mapping = raw
		return outcome
	}
	if cfg.IsDryRun() {
		return domain.Performed(fmt.Sprintf("%s would launch %s", domain.DryRunPrefix, target.Value))
	}

	var description string
	err = e.live(func() error {
		if target.Kind == domain.AppKindProtocol {
			description = "opened protocol " + target.Value
			return e.launcher.OpenURL(ctx, target.Value)
		}
		description = "launched " + target.Value
		return e.launcher.LaunchApp(ctx, target.Value)
	})
	if err != nil {
		e.logger.Warn("open app failed", map[string]interface{}{
			"kind":   string(target.Kind),
			"target": target.Value,
			"error":  err.Error(),
		})
		return domain.Failed(err.Error())
	}
	e.logger.Info(description, map[string]interface{}{"kind": string(target.Kind)})
	return domain.Performed(description)
}

var errNoLauncher = errors.New("no platform launcher configured")

// live runs a side effect, turning a panic in the platform layer into an error.
func (e *Executor) live(effect func() error) (err error) {
	if e.launcher == nil {
		return errNoLauncher
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("platform call panicked: %v", r)
		}
	}()
	return effect()
}

var _ ports.ActionExecutor = (*Executor)(nil)
