package speech

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/doeshing/gng-assistant/internal/pkg/logger"
)

type invocation struct {
	path  string
	args  []string
	stdin string
}

type harness struct {
	lookups []string
	calls   []invocation
	found   map[string]string
	runErr  error
}

func (h *harness) options(goos string) Options {
	return Options{
		goos: goos,
		lookPath: func(name string) (string, error) {
			h.lookups = append(h.lookups, name)
			if p, ok := h.found[name]; ok {
				return p, nil
			}
			return "", errors.New("not found")
		},
		run: func(_ context.Context, path string, args []string, stdin string) error {
			h.calls = append(h.calls, invocation{path: path, args: args, stdin: stdin})
			return h.runErr
		},
	}
}

func TestSpeakerLinuxPrefersEspeakNG(t *testing.T) {
	h := &harness{found: map[string]string{"espeak-ng": "/usr/bin/espeak-ng", "espeak": "/usr/bin/espeak"}}
	s := NewSpeaker(h.options("linux"))

	s.Speak(context.Background(), "opened https://github.com")
	s.Speak(context.Background(), "The time is 2024-01-01 10:00:00")

	assert.Equal(t, []string{"espeak-ng"}, h.lookups, "engine is discovered once")
	assert.Equal(t, []invocation{
		{path: "/usr/bin/espeak-ng", args: []string{"opened https://github.com"}},
		{path: "/usr/bin/espeak-ng", args: []string{"The time is 2024-01-01 10:00:00"}},
	}, h.calls)
}

func TestSpeakerWindowsPipesText(t *testing.T) {
	h := &harness{found: map[string]string{"powershell": `C:\ps.exe`}}
	s := NewSpeaker(h.options("windows"))

	s.Speak(context.Background(), "launched spotify")

	require.Len(t, h.calls, 1)
	assert.Equal(t, "launched spotify", h.calls[0].stdin)
	assert.Equal(t, windowsSpeakScript, h.calls[0].args[len(h.calls[0].args)-1])
}

func TestSpeakerCommandOverride(t *testing.T) {
	h := &harness{found: map[string]string{"festival": "/opt/festival"}}
	opts := h.options("linux")
	opts.Command = "festival --tts -"
	s := NewSpeaker(opts)

	s.Speak(context.Background(), "hello")

	assert.Equal(t, []string{"festival"}, h.lookups)
	assert.Equal(t, []invocation{{path: "/opt/festival", args: []string{"--tts", "-", "hello"}}}, h.calls)
}

func TestSpeakerFallbackPrintsDryRun(t *testing.T) {
	var out bytes.Buffer
	h := &harness{}
	opts := h.options("darwin")
	opts.Fallback = &out
	s := NewSpeaker(opts)

	assert.False(t, s.Available())
	s.Speak(context.Background(), "Error: no_url")
	s.Speak(context.Background(), "   ")

	assert.Equal(t, "[TTS dry-run] Error: no_url\n", out.String())
	assert.Empty(t, h.calls)
}

func TestSpeakerEngineErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	h := &harness{found: map[string]string{"say": "/usr/bin/say"}, runErr: errors.New("exit status 1")}
	opts := h.options("darwin")
	opts.Logger = logger.NewWithCore(core)
	s := NewSpeaker(opts)

	assert.NotPanics(t, func() { s.Speak(context.Background(), "hi") })
	assert.Equal(t, 1, logs.FilterMessage("speech engine failed").Len())
}

func TestSpeakerClose(t *testing.T) {
	h := &harness{found: map[string]string{"say": "/usr/bin/say"}}
	s := NewSpeaker(h.options("darwin"))

	s.Speak(context.Background(), "first")
	require.NoError(t, s.Close())
	s.Speak(context.Background(), "second")

	assert.Len(t, h.calls, 1)
}
