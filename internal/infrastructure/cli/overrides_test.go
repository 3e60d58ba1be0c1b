package cli

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/gng-assistant/internal/domain"
)

func resolveArgs(t *testing.T, applyBundle bool, args ...string) (domain.Overrides, []string) {
	t.Helper()
	var f overrideFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.register(fs)
	require.NoError(t, fs.Parse(args))
	return f.resolve(fs, applyBundle)
}

func TestResolveOverrides(t *testing.T) {
	tests := []struct {
		name        string
		applyBundle bool
		args        []string
		want        domain.Overrides
		notices     []string
	}{
		{
			name:        "no flags in a mode applies the bundle",
			applyBundle: true,
			want:        DefaultBundle(),
			notices:     []string{NoticeDefaultBundle},
		},
		{
			name: "no flags outside a mode applies nothing",
			want: domain.Overrides{},
		},
		{
			name:        "any flag suppresses the bundle",
			applyBundle: true,
			args:        []string{"--use-ollama=false"},
			want:        domain.Overrides{domain.KeyUseOllama: false},
		},
		{
			name:        "decider implies execution",
			applyBundle: true,
			args:        []string{"--use-ollama-decider"},
			want: domain.Overrides{
				domain.KeyUseOllamaDecider: true,
				domain.KeyAllowExecution:   true,
			},
			notices: []string{NoticeDeciderImpliesX},
		},
		{
			name:        "explicit allow-exec wins over the decider",
			applyBundle: true,
			args:        []string{"--use-ollama-decider", "--allow-exec=false"},
			want: domain.Overrides{
				domain.KeyUseOllamaDecider: true,
				domain.KeyAllowExecution:   false,
			},
		},
		{
			name: "values are carried with their types",
			args: []string{"--wake-word", "computer", "--llm-timeout", "3", "--allowed-command", "lock", "--allowed-command", "sleep"},
			want: domain.Overrides{
				domain.KeyWakeWord:        "computer",
				domain.KeyLLMTimeout:      3,
				domain.KeyAllowedCommands: []string{"lock", "sleep"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, notices := resolveArgs(t, tt.applyBundle, tt.args...)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("overrides mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.notices, notices); diff != "" {
				t.Errorf("notices mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
