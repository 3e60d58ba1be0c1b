package config

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/doeshing/gng-assistant/internal/domain"
	"github.com/doeshing/gng-assistant/internal/pkg/logger"
	"github.com/doeshing/gng-assistant/internal/ports"
)

// Watcher keeps the latest valid configuration snapshot and reloads it when
// the file changes. Each Load returns one immutable snapshot, so a turn never
// observes a half-applied change.
type Watcher struct {
	loader   *FileLoader
	logger   ports.Logger
	debounce time.Duration

	current  atomic.Pointer[domain.Config]
	mu       sync.Mutex
	onChange []func(domain.Config)
}

// NewWatcher loads the initial snapshot. A failing initial load is returned
// to the caller; later failures keep the previous snapshot.
func NewWatcher(ctx context.Context, loader *FileLoader, log ports.Logger) (*Watcher, error) {
	if log == nil {
		log = logger.NewNop()
	}
	cfg, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	w := &Watcher{loader: loader, logger: log, debounce: 100 * time.Millisecond}
	w.current.Store(&cfg)
	return w, nil
}

// Load implements ports.ConfigProvider with the current snapshot.
func (w *Watcher) Load(context.Context) (domain.Config, error) {
	return w.current.Load().Clone(), nil
}

// SetLogger replaces the logger once the real one is available.
func (w *Watcher) SetLogger(log ports.Logger) {
	if log != nil {
		w.logger = log
	}
}

// OnChange registers a callback invoked after each successful reload.
func (w *Watcher) OnChange(fn func(domain.Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Run watches the config directory until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	path := w.loader.Path()
	// Editors often replace the file, so watch the directory.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		return err
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", map[string]interface{}{"error": err.Error()})
		case <-pending:
			pending = nil
			w.reload(ctx)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	cfg, err := w.loader.Load(ctx)
	if err != nil {
		w.logger.Warn("config reload failed, keeping previous snapshot", map[string]interface{}{
			"path":  w.loader.Path(),
			"error": err.Error(),
		})
		return
	}
	w.current.Store(&cfg)
	w.logger.Info("config reloaded", map[string]interface{}{"path": w.loader.Path()})

	w.mu.Lock()
	callbacks := append(([]func(domain.Config))(nil), w.onChange...)
	w.mu.Unlock()
	for _, fn := range callbacks {
		fn(cfg.Clone())
	}
}

var _ ports.ConfigProvider = (*Watcher)(nil)
