package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/doeshing/gng-assistant/internal/domain"
	"github.com/doeshing/gng-assistant/internal/pkg/filesystem"
	"github.com/doeshing/gng-assistant/internal/ports"
)

// ProbePrompt is sent by Probe to show what the model returns verbatim.
const ProbePrompt = `Return a single JSON object {"intent": string, "entities": object} for the command.
Input: "open github"
Output:`

// SpeechProbe reports whether a speech engine can be found.
type SpeechProbe interface {
	Available() bool
}

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	ModelRunner    ports.ModelRunner
	History        ports.HistoryRepository
	Speech         SpeechProbe
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", "loaded"))
	checks = append(checks, executionCheck(cfg), wakeWordCheck(cfg))
	checks = append(checks, s.modelCheck(cfg))
	checks = append(checks, writableCheck("Memory file", cfg.MemoryFile))
	checks = append(checks, s.historyCheck(ctx))
	checks = append(checks, s.speechCheck(cfg))

	return domain.HealthReport{Checks: checks}, nil
}

// Probe sends ProbePrompt to the model and returns its raw output.
func (s *Service) Probe(ctx context.Context) (string, error) {
	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	if s.ModelRunner == nil || !s.ModelRunner.Available(cfg) {
		return "", errors.New("model executable not found; set ollama_path or install ollama")
	}
	return s.ModelRunner.Run(ctx, ProbePrompt, cfg)
}

func executionCheck(cfg domain.Config) domain.HealthCheck {
	if cfg.IsDryRun() {
		return ok("Execution", "dry-run (allow_execution=false)")
	}
	return warn("Execution", "live: URLs and apps will be opened")
}

func wakeWordCheck(cfg domain.Config) domain.HealthCheck {
	if cfg.AlwaysListen {
		return warn("Wake word", "disabled (always_listen=true)")
	}
	return ok("Wake word", fmt.Sprintf("%q", cfg.GetWakeWord()))
}

func (s *Service) modelCheck(cfg domain.Config) domain.HealthCheck {
	if !cfg.LLMEnabled() {
		return ok("Model", "disabled, using built-in rules")
	}
	if s.ModelRunner == nil || !s.ModelRunner.Available(cfg) {
		return warn("Model", "executable not found, commands fall back to built-in rules")
	}
	mode := "extraction"
	if cfg.DeciderEnabled() {
		mode = "decider, then extraction"
	}
	return ok("Model", fmt.Sprintf("%s via %s", cfg.GetLLMModel(), mode))
}

func writableCheck(name, path string) domain.HealthCheck {
	if path == "" {
		return warn(name, "no path configured")
	}
	dir := filepath.Dir(path)
	if err := filesystem.EnsureParentDir(path); err != nil {
		return fail(name, err.Error())
	}
	probe, err := os.CreateTemp(dir, ".gng-doctor-*")
	if err != nil {
		return fail(name, fmt.Sprintf("%s not writable: %v", dir, err))
	}
	probe.Close()
	_ = os.Remove(probe.Name())
	return ok(name, path)
}

func (s *Service) historyCheck(ctx context.Context) domain.HealthCheck {
	if s.History == nil {
		return warn("History", "not configured")
	}
	if _, err := s.History.Records(ctx, 1); err != nil {
		return warn("History", err.Error())
	}
	return ok("History", "readable")
}

func (s *Service) speechCheck(cfg domain.Config) domain.HealthCheck {
	if !cfg.AllowTTS {
		return ok("Speech", "disabled")
	}
	if s.Speech == nil || !s.Speech.Available() {
		return warn("Speech", "no engine found, output is printed instead")
	}
	return ok("Speech", "engine available")
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
