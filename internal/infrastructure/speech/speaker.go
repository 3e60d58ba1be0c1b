// Package speech renders outcome messages as audio through a local
// text-to-speech program. A missing program degrades to a printed line.
package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/doeshing/gng-assistant/internal/pkg/logger"
	"github.com/doeshing/gng-assistant/internal/ports"
)

// DryRunPrefix marks text that would have been spoken.
const DryRunPrefix = "[TTS dry-run]"

const windowsSpeakScript = "Add-Type -AssemblyName System.Speech; " +
	"(New-Object System.Speech.Synthesis.SpeechSynthesizer).Speak([Console]::In.ReadToEnd())"

// engine is a resolved speech program. When viaStdin is set the text is
// piped in; otherwise it is appended as the last argument.
type engine struct {
	path     string
	args     []string
	viaStdin bool
}

func (e engine) command(text string) ([]string, string) {
	args := append([]string(nil), e.args...)
	if e.viaStdin {
		return args, text
	}
	return append(args, text), ""
}

// Runner executes one speech program invocation.
type Runner func(ctx context.Context, path string, args []string, stdin string) error

// Options configures a Speaker.
type Options struct {
	// Command overrides engine discovery, e.g. "espeak -s 150".
	Command string
	// Fallback receives dry-run lines; defaults to stdout.
	Fallback io.Writer
	Logger   ports.Logger

	goos     string
	lookPath func(string) (string, error)
	run      Runner
}

// Speaker owns a lazily discovered speech engine. Discovery happens on the
// first Speak call and is released by Close.
type Speaker struct {
	mu       sync.Mutex
	opts     Options
	engine   *engine
	resolved bool
	closed   bool
}

// NewSpeaker builds a speaker; no program is looked up until first use.
func NewSpeaker(opts Options) *Speaker {
	if opts.Fallback == nil {
		opts.Fallback = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.goos == "" {
		opts.goos = runtime.GOOS
	}
	if opts.lookPath == nil {
		opts.lookPath = exec.LookPath
	}
	if opts.run == nil {
		opts.run = runProgram
	}
	return &Speaker{opts: opts}
}

// Speak implements ports.Speaker. Failures are logged, never returned.
func (s *Speaker) Speak(ctx context.Context, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	eng := s.ensureEngine()
	if eng == nil {
		fmt.Fprintf(s.opts.Fallback, "%s %s\n", DryRunPrefix, text)
		return
	}
	args, stdin := eng.command(text)
	if err := s.opts.run(ctx, eng.path, args, stdin); err != nil {
		s.opts.Logger.Warn("speech engine failed", map[string]interface{}{
			"engine": eng.path,
			"error":  err.Error(),
		})
	}
}

// Available reports whether a speech program can be found.
func (s *Speaker) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureEngine() != nil
}

// Close releases the engine. Later Speak calls are ignored.
func (s *Speaker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.engine = nil
	return nil
}

func (s *Speaker) ensureEngine() *engine {
	if s.resolved {
		return s.engine
	}
	s.resolved = true
	for _, candidate := range s.candidates() {
		path, err := s.opts.lookPath(candidate.path)
		if err != nil {
			continue
		}
		candidate.path = path
		s.engine = &candidate
		s.opts.Logger.Debug("speech engine selected", map[string]interface{}{"engine": path})
		return s.engine
	}
	s.opts.Logger.Debug("no speech engine found", map[string]interface{}{"goos": s.opts.goos})
	return nil
}

func (s *Speaker) candidates() []engine {
	if fields := strings.Fields(s.opts.Command); len(fields) > 0 {
		return []engine{{path: fields[0], args: fields[1:]}}
	}
	switch s.opts.goos {
	case "darwin":
		return []engine{{path: "say"}}
	case "windows":
		return []engine{{path: "powershell", args: []string{"-NoProfile", "-Command", windowsSpeakScript}, viaStdin: true}}
	default:
		return []engine{{path: "espeak-ng"}, {path: "espeak"}}
	}
}

func runProgram(ctx context.Context, path string, args []string, stdin string) error {
	cmd := exec.CommandContext(ctx, path, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

var _ ports.Speaker = (*Speaker)(nil)
