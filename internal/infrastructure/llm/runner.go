package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/doeshing/gng-assistant/internal/domain"
	"github.com/doeshing/gng-assistant/internal/ports"
)

// OllamaRunner implements ModelRunner by executing `<exe> run <model>` with
// the prompt piped to stdin. The wall-clock bound is enforced here, not by callers.
type OllamaRunner struct {
	lookPath func(string) (string, error)
	stat     func(string) (os.FileInfo, error)
}

// NewOllamaRunner builds a runner that discovers the executable on PATH.
func NewOllamaRunner() *OllamaRunner {
	return &OllamaRunner{lookPath: exec.LookPath, stat: os.Stat}
}

// Locate resolves the executable: ollama_path when set, otherwise PATH lookup.
func (r *OllamaRunner) Locate(cfg domain.Config) (string, error) {
	if path := strings.TrimSpace(cfg.OllamaPath); path != "" {
		if _, err := r.stat(path); err != nil {
			return "", fail(ReasonNotFound, err)
		}
		return path, nil
	}
	path, err := r.lookPath(domain.DefaultOllamaExecutable)
	if err != nil {
		return "", fail(ReasonNotFound, err)
	}
	return path, nil
}

// Available implements ports.ModelRunner.
func (r *OllamaRunner) Available(cfg domain.Config) bool {
	_, err := r.Locate(cfg)
	return err == nil
}

// Run implements ports.ModelRunner. Output is stdout; stderr stands in when a
// successful run printed nothing to stdout. A non-zero exit still counts as
// success when stdout is non-empty.
func (r *OllamaRunner) Run(ctx context.Context, prompt string, cfg domain.Config) (string, error) {
	exe, err := r.Locate(cfg)
	if err != nil {
		return "", err
	}

	timeout := cfg.GetLLMTimeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, exe, "run", cfg.GetLLMModel())
	cmd.Stdin = strings.NewReader(prompt)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	runErr := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", fail(ReasonTimeout, fmt.Errorf("%s timed out after %v", exe, timeout))
	}
	if ctx.Err() != nil {
		return "", fail(ReasonProcess, ctx.Err())
	}

	out := stdout.String()
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) && strings.TrimSpace(out) != "" {
			return out, nil
		}
		return "", fail(ReasonProcess, fmt.Errorf("%s run %s: %w: %s", exe, cfg.GetLLMModel(), runErr, strings.TrimSpace(stderr.String())))
	}
	if out == "" && stderr.Len() > 0 {
		out = "\n" + stderr.String()
	}
	return out, nil
}

var _ ports.ModelRunner = (*OllamaRunner)(nil)
