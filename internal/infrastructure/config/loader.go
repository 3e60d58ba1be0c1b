package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/doeshing/gng-assistant/assets"
	"github.com/doeshing/gng-assistant/internal/domain"
	"github.com/doeshing/gng-assistant/internal/pkg/filesystem"
	"github.com/doeshing/gng-assistant/internal/ports"
)

// Environment variables consulted by the loader.
const (
	EnvConfigPath = "GNG_CONFIG"
	EnvOllamaPath = "GNG_OLLAMA_PATH"
	EnvLLMModel   = "GNG_LLM_MODEL"
	EnvWakeWord   = "GNG_WAKE_WORD"
)

var envKeys = map[string]string{
	EnvOllamaPath: domain.KeyOllamaPath,
	EnvLLMModel:   domain.KeyLLMModel,
	EnvWakeWord:   domain.KeyWakeWord,
}

// FileLoader loads YAML configuration from ~/.gng/config.yaml (overridable via GNG_CONFIG).
// Precedence, lowest first: embedded defaults, file, environment, overrides.
type FileLoader struct {
	overridePath string
	overrides    domain.Overrides
	getenv       func(string) string
	validate     *validator.Validate
}

// NewFileLoader builds a new loader. overrides may be nil.
func NewFileLoader(path string, overrides domain.Overrides) *FileLoader {
	return &FileLoader{
		overridePath: path,
		overrides:    overrides,
		getenv:       os.Getenv,
		validate:     validator.New(),
	}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	if err := filesystem.EnsureParentDir(path); err != nil {
		return domain.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return domain.Config{}, err
		}
		if err := writeDefault(path); err != nil {
			return domain.Config{}, fmt.Errorf("write default config: %w", err)
		}
		data = assets.DefaultConfigYAML
	}

	doc, err := ParseDocument(data)
	if err != nil {
		return domain.Config{}, err
	}
	doc.Merge(l.environment())
	doc.Merge(l.overrides)

	cfg, err := doc.Build()
	if err != nil {
		return domain.Config{}, err
	}
	cfg = hydratePaths(cfg, filepath.Dir(path))
	if err := l.Validate(cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// Validate checks struct constraints on a built configuration.
func (l *FileLoader) Validate(cfg domain.Config) error {
	if err := l.validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, ", "))
		}
		return err
	}
	return nil
}

// Defaults builds the embedded default configuration, with storage paths
// resolved against the config directory.
func (l *FileLoader) Defaults() (domain.Config, error) {
	doc, err := ParseDocument(assets.DefaultConfigYAML)
	if err != nil {
		return domain.Config{}, err
	}
	cfg, err := doc.Build()
	if err != nil {
		return domain.Config{}, err
	}
	return hydratePaths(cfg, filepath.Dir(l.Path())), nil
}

// Path returns the resolved config file path.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandHome(l.overridePath)
	}
	if custom := l.getenv(EnvConfigPath); custom != "" {
		return filesystem.ExpandHome(custom)
	}
	return filepath.Join(filesystem.AppDir(), "config.yaml")
}

func (l *FileLoader) environment() map[string]any {
	values := map[string]any{}
	for env, key := range envKeys {
		if v := strings.TrimSpace(l.getenv(env)); v != "" {
			values[key] = v
		}
	}
	return values
}

func writeDefault(path string) error {
	return os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions)
}

// hydratePaths resolves storage paths relative to the config directory.
func hydratePaths(cfg domain.Config, dir string) domain.Config {
	resolve := func(p, fallback string) string {
		if strings.TrimSpace(p) == "" {
			p = fallback
		}
		if p == "" {
			return ""
		}
		p = filesystem.ExpandHome(p)
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		return p
	}
	cfg.MemoryFile = resolve(cfg.MemoryFile, "memory.json")
	cfg.HistoryFile = resolve(cfg.HistoryFile, "history.db")
	cfg.LogFile = resolve(cfg.LogFile, "")
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
