package config

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/gng-assistant/internal/domain"
	"github.com/doeshing/gng-assistant/internal/pkg/logger"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, "wake_word: hey gng\n")
	w, err := NewWatcher(context.Background(), newTestLoader(path, nil, nil), logger.NewNop())
	require.NoError(t, err)

	changed := make(chan domain.Config, 1)
	w.OnChange(func(cfg domain.Config) {
		select {
		case changed <- cfg:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	// Give the watcher a moment to register the directory.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("wake_word: ok gng\n"), 0o600))

	select {
	case cfg := <-changed:
		assert.Equal(t, "ok gng", cfg.WakeWord)
	case <-time.After(3 * time.Second):
		t.Fatal("config change not observed")
	}

	current, err := w.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok gng", current.WakeWord)
}

func TestWatcherKeepsSnapshotOnBadReload(t *testing.T) {
	path := writeConfig(t, "llm_model: mistral\n")
	w, err := NewWatcher(context.Background(), newTestLoader(path, nil, nil), logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("llm_model: [broken"), 0o600))
	w.reload(context.Background())

	cfg, err := w.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mistral", cfg.LLMModel)
}

func TestNewWatcherFailsOnInvalidFile(t *testing.T) {
	path := writeConfig(t, "llm_timeout: -1\n")
	_, err := NewWatcher(context.Background(), newTestLoader(path, nil, nil), nil)
	assert.Error(t, err)
}
