package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/gng-assistant/internal/domain"
)

type stubConfig struct {
	cfg domain.Config
	err error
}

func (s stubConfig) Load(context.Context) (domain.Config, error) { return s.cfg, s.err }

type stubRunner struct {
	available bool
	output    string
	prompts   []string
}

func (r *stubRunner) Available(domain.Config) bool { return r.available }

func (r *stubRunner) Run(_ context.Context, prompt string, _ domain.Config) (string, error) {
	r.prompts = append(r.prompts, prompt)
	return r.output, nil
}

type stubHistory struct{ err error }

func (h stubHistory) Save(context.Context, domain.HistoryRecord) error { return nil }
func (h stubHistory) Records(context.Context, int) ([]domain.HistoryRecord, error) {
	return nil, h.err
}
func (h stubHistory) Clear(context.Context) error { return nil }
func (h stubHistory) Close() error { return nil }

type stubSpeech bool

func (s stubSpeech) Available() bool { return bool(s) }

func statuses(report domain.HealthReport) map[string]domain.HealthStatus {
	out := map[string]domain.HealthStatus{}
	for _, c := range report.Checks {
		out[c.Name] = c.Status
	}
	return out
}

func TestDoctorHealthyDefaults(t *testing.T) {
	cfg := domain.Config{MemoryFile: filepath.Join(t.TempDir(), "memory.json")}
	svc := &Service{ConfigProvider: stubConfig{cfg: cfg}, History: stubHistory{}}

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, report.HasErrors())
	assert.Equal(t, map[string]domain.HealthStatus{
		"Config file": domain.HealthOK,
		"Execution":   domain.HealthOK,
		"Wake word":   domain.HealthOK,
		"Model":       domain.HealthOK,
		"Memory file": domain.HealthOK,
		"History":     domain.HealthOK,
		"Speech":      domain.HealthOK,
	}, statuses(report))
}

func TestDoctorWarnings(t *testing.T) {
	cfg := domain.Config{
		AllowExecution: true,
		AlwaysListen:   true,
		UseOllama:      true,
		AllowTTS:       true,
		MemoryFile:     filepath.Join(t.TempDir(), "memory.json"),
	}
	svc := &Service{
		ConfigProvider: stubConfig{cfg: cfg},
		ModelRunner:    &stubRunner{available: false},
		History:        stubHistory{err: errors.New("database is locked")},
		Speech:         stubSpeech(false),
	}

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	got := statuses(report)
	for _, name := range []string{"Execution", "Wake word", "Model", "History", "Speech"} {
		assert.Equal(t, domain.HealthWarn, got[name], name)
	}
}

func TestDoctorUnwritableMemory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	cfg := domain.Config{MemoryFile: filepath.Join(blocker, "memory.json")}

	report, err := (&Service{ConfigProvider: stubConfig{cfg: cfg}}).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.HasErrors())
	assert.Equal(t, domain.HealthError, statuses(report)["Memory file"])
}

func TestDoctorConfigFailure(t *testing.T) {
	svc := &Service{ConfigProvider: stubConfig{err: errors.New("bad yaml")}}
	report, err := svc.Run(context.Background())
	require.Error(t, err)
	require.Len(t, report.Checks, 1)
	assert.Equal(t, domain.HealthError, report.Checks[0].Status)
}

func TestDoctorProbe(t *testing.T) {
	runner := &stubRunner{available: true, output: `{"intent": "open_url"}`}
	svc := &Service{ConfigProvider: stubConfig{}, ModelRunner: runner}

	out, err := svc.Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"intent": "open_url"}`, out)
	assert.Equal(t, []string{ProbePrompt}, runner.prompts)

	svc.ModelRunner = &stubRunner{available: false}
	_, err = svc.Probe(context.Background())
	assert.Error(t, err)
}
