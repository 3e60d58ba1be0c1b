package app

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/doeshing/gng-assistant/internal/application/doctor"
	"github.com/doeshing/gng-assistant/internal/application/session"
	"github.com/doeshing/gng-assistant/internal/domain"
	"github.com/doeshing/gng-assistant/internal/infrastructure/config"
	"github.com/doeshing/gng-assistant/internal/infrastructure/executor"
	"github.com/doeshing/gng-assistant/internal/infrastructure/history"
	"github.com/doeshing/gng-assistant/internal/infrastructure/llm"
	"github.com/doeshing/gng-assistant/internal/infrastructure/memory"
	"github.com/doeshing/gng-assistant/internal/infrastructure/nlu"
	"github.com/doeshing/gng-assistant/internal/infrastructure/platform"
	"github.com/doeshing/gng-assistant/internal/infrastructure/speech"
	"github.com/doeshing/gng-assistant/internal/pkg/logger"
	"github.com/doeshing/gng-assistant/internal/ports"
)

// Options controls how the container is built.
type Options struct {
	// ConfigPath overrides the config file location.
	ConfigPath string
	Verbose    bool
	// Overrides are layered over the file and environment.
	Overrides domain.Overrides
	// Launcher replaces the platform launcher, used by tests.
	Launcher ports.Launcher
	// Stdout receives speech dry-run lines. Defaults to os.Stdout.
	Stdout io.Writer
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config         domain.Config
	ConfigLoader   *config.FileLoader
	ConfigWatcher  *config.Watcher
	Logger         *logger.ZapLogger
	SessionService *session.Service
	DoctorService  *doctor.Service
	HistoryStore   *history.SQLiteStore
	MemoryStore    *memory.FileStore
	Speaker        *speech.Speaker
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath, opts.Overrides)
	watcher, err := config.NewWatcher(ctx, cfgLoader, nil)
	if err != nil {
		return nil, err
	}
	cfg, err := watcher.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Options{Verbose: opts.Verbose, File: cfg.LogFile})
	watcher.SetLogger(log)

	launcher := opts.Launcher
	if launcher == nil {
		launcher = platform.NewLauncher()
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	speaker := speech.NewSpeaker(speech.Options{
		Command:  cfg.SpeechCommand,
		Fallback: stdout,
		Logger:   log,
	})
	runner := llm.NewOllamaRunner()
	historyStore := history.NewSQLiteStore(cfg.HistoryFile)
	memoryStore := memory.NewFileStore(cfg.MemoryFile)

	sessionService := &session.Service{
		ConfigProvider: watcher,
		Resolver:       nlu.NewResolver(runner, nlu.NewRuleParser(nlu.DefaultTables()), log),
		Executor:       executor.New(launcher, speaker, log),
		Memory:         memoryStore,
		History:        historyStore,
		Logger:         log,
	}

	doctorService := &doctor.Service{
		ConfigProvider: watcher,
		ModelRunner:    runner,
		History:        historyStore,
		Speech:         speaker,
	}

	log.Debug("container built", map[string]interface{}{
		"config":   cfgLoader.Path(),
		"memory":   memoryStore.Path(),
		"history":  historyStore.Path(),
		"dry_run":  cfg.IsDryRun(),
		"use_llm":  cfg.LLMEnabled(),
		"decider":  cfg.DeciderEnabled(),
		"wakeword": cfg.GetWakeWord(),
	})

	return &Container{
		Config:         cfg,
		ConfigLoader:   cfgLoader,
		ConfigWatcher:  watcher,
		Logger:         log,
		SessionService: sessionService,
		DoctorService:  doctorService,
		HistoryStore:   historyStore,
		MemoryStore:    memoryStore,
		Speaker:        speaker,
	}, nil
}

// Close releases the speech engine and the history database, then flushes logs.
func (c *Container) Close() error {
	var errs []error
	if c.Speaker != nil {
		errs = append(errs, c.Speaker.Close())
	}
	if c.HistoryStore != nil {
		errs = append(errs, c.HistoryStore.Close())
	}
	if c.Logger != nil {
		// Sync on stderr can fail with EINVAL.
		_ = c.Logger.Sync()
	}
	return errors.Join(errs...)
}
