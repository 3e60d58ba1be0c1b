package executor

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/gng-assistant/internal/domain"
	"github.com/doeshing/gng-assistant/internal/pkg/logger"
)

type launchCall struct {
	method string
	target string
}

type fakeLauncher struct {
	calls []launchCall
	err   error
}

func (f *fakeLauncher) OpenURL(_ context.Context, target string) error {
	f.calls = append(f.calls, launchCall{method: "url", target: target})
	return f.err
}

func (f *fakeLauncher) LaunchApp(_ context.Context, name string) error {
	f.calls = append(f.calls, launchCall{method: "app", target: name})
	return f.err
}

type fakeSpeaker struct {
	spoken []string
}

func (f *fakeSpeaker) Speak(_ context.Context, text string) { f.spoken = append(f.spoken, text) }
func (f *fakeSpeaker) Close() error { return nil }

var fixedNow = time.Date(2024, 3, 9, 7, 5, 1, 0, time.Local)

func newTestExecutor(l *fakeLauncher, s *fakeSpeaker) *Executor {
	return New(l, s, logger.NewNop(), WithClock(func() time.Time { return fixedNow }))
}

var (
	dryRun = domain.Config{}
	live   = domain.Config{AllowExecution: true}
)

func TestExecuteDryRun(t *testing.T) {
	tests := []struct {
		name     string
		intent   string
		entities domain.Entities
		want     domain.ActionOutcome
	}{
		{
			name:     "open url",
			intent:   domain.IntentOpenURL,
			entities: domain.Entities{"url": "https://github.com"},
			want:     domain.Performed("(dry-run) would open https://github.com"),
		},
		{
			name:     "protocol target",
			intent:   domain.IntentOpenApp,
			entities: domain.Entities{"app": domain.ProtocolTarget("xbox:")},
			want:     domain.Performed("(dry-run) would launch xbox:"),
		},
		{
			name:     "plain string app",
			intent:   domain.IntentOpenApp,
			entities: domain.Entities{"app": "notepad"},
			want:     domain.Performed("(dry-run) would launch notepad"),
		},
		{
			name:     "decoded app object",
			intent:   domain.IntentOpenApp,
			entities: domain.Entities{"app": map[string]any{"type": "app", "value": "spotify"}},
			want:     domain.Performed("(dry-run) would launch spotify"),
		},
		{
			name:   "decider action",
			intent: domain.IntentExecute,
			entities: domain.Entities{"action": domain.Action{
				"type": "open_url",
				"url":  "https://example.com",
			}},
			want: domain.Performed("(dry-run) would open https://example.com"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			launcher := &fakeLauncher{}
			got := newTestExecutor(launcher, nil).Execute(context.Background(), tt.intent, tt.entities, dryRun)
			assert.Equal(t, tt.want, got)
			assert.True(t, strings.HasPrefix(got.Action, domain.DryRunPrefix))
			assert.Empty(t, launcher.calls, "dry-run must not reach the platform")
		})
	}
}

func TestExecuteLive(t *testing.T) {
	tests := []struct {
		name     string
		intent   string
		entities domain.Entities
		want     string
		call     launchCall
	}{
		{
			name:     "open url",
			intent:   domain.IntentOpenURL,
			entities: domain.Entities{"url": "https://github.com"},
			want:     "opened https://github.com",
			call:     launchCall{method: "url", target: "https://github.com"},
		},
		{
			name:     "protocol",
			intent:   domain.IntentOpenApp,
			entities: domain.Entities{"app": domain.ProtocolTarget("ms-windows-store://home")},
			want:     "opened protocol ms-windows-store://home",
			call:     launchCall{method: "url", target: "ms-windows-store://home"},
		},
		{
			name:     "named app",
			intent:   domain.IntentOpenApp,
			entities: domain.Entities{"app": domain.NamedApp("spotify")},
			want:     "launched spotify",
			call:     launchCall{method: "app", target: "spotify"},
		},
		{
			name:     "action app string",
			intent:   domain.IntentExecute,
			entities: domain.Entities{"action": map[string]any{"type": "open_app", "app": "chrome"}},
			want:     "launched chrome",
			call:     launchCall{method: "app", target: "chrome"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			launcher := &fakeLauncher{}
			got := newTestExecutor(launcher, nil).Execute(context.Background(), tt.intent, tt.entities, live)
			require.True(t, got.OK)
			assert.Equal(t, tt.want, got.Action)
			assert.NotContains(t, got.Action, domain.DryRunPrefix)
			assert.Equal(t, []launchCall{tt.call}, launcher.calls)
		})
	}
}

func TestExecuteLiveFailure(t *testing.T) {
	launcher := &fakeLauncher{err: errors.New("xdg-open: not found")}
	got := newTestExecutor(launcher, nil).Execute(context.Background(), domain.IntentOpenURL,
		domain.Entities{"url": "https://github.com"}, live)

	assert.Equal(t, domain.Failed("xdg-open: not found"), got)
}

func TestExecuteNilLauncher(t *testing.T) {
	got := New(nil, nil, nil).Execute(context.Background(), domain.IntentOpenURL,
		domain.Entities{"url": "https://github.com"}, live)
	assert.False(t, got.OK)
	assert.Equal(t, errNoLauncher.Error(), got.Error)
}

func TestExecuteDomainErrors(t *testing.T) {
	badAction := domain.Action{"type": "reboot"}
	tests := []struct {
		name     string
		intent   string
		entities domain.Entities
		want     domain.ActionOutcome
	}{
		{
			name: "no intent",
			want: domain.Failed(domain.ErrCodeNoIntent),
		},
		{
			name:     "missing url",
			intent:   domain.IntentOpenURL,
			entities: domain.Entities{"url": ""},
			want:     domain.Failed(domain.ErrCodeNoURL),
		},
		{
			name:   "missing app",
			intent: domain.IntentOpenApp,
			want:   domain.Failed(domain.ErrCodeNoApp),
		},
		{
			name:     "malformed target",
			intent:   domain.IntentOpenApp,
			entities: domain.Entities{"app": map[string]any{"type": "shell", "value": "rm"}},
			want: domain.ActionOutcome{
				Error:   domain.ErrCodeUnknownAppMapping,
				Mapping: map[string]any{"type": "shell", "value": "rm"},
			},
		},
		{
			name:     "unknown action type",
			intent:   domain.IntentExecute,
			entities: domain.Entities{"action": badAction},
			want:     domain.ActionOutcome{Error: domain.ErrCodeUnknownActionType, Rejected: badAction},
		},
		{
			name:   "unknown intent",
			intent: "Shutdown",
			want:   domain.ActionOutcome{Error: domain.ErrCodeUnknownIntent, Intent: "Shutdown"},
		},
		{
			name:   "execute without action",
			intent: domain.IntentExecute,
			want:   domain.ActionOutcome{Error: domain.ErrCodeUnknownIntent, Intent: domain.IntentExecute},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, cfg := range []domain.Config{dryRun, live} {
				launcher := &fakeLauncher{}
				got := newTestExecutor(launcher, nil).Execute(context.Background(), tt.intent, tt.entities, cfg)
				assert.Equal(t, tt.want, got)
				assert.Empty(t, launcher.calls)
			}
		})
	}
}

func TestExecuteNoneAction(t *testing.T) {
	got := newTestExecutor(&fakeLauncher{}, nil).Execute(context.Background(), domain.IntentExecute,
		domain.Entities{"action": map[string]any{"type": "none"}}, live)
	assert.Equal(t, domain.Performed("no action taken"), got)
}

func TestExecuteTellTime(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)
	for _, cfg := range []domain.Config{dryRun, live} {
		got := newTestExecutor(&fakeLauncher{}, nil).Execute(context.Background(), domain.IntentTellTime, domain.Entities{}, cfg)
		assert.Equal(t, domain.ToldTime("2024-03-09 07:05:01"), got)
	}

	wall := New(&fakeLauncher{}, nil, logger.NewNop())
	got := wall.Execute(context.Background(), domain.IntentTellTime, nil, dryRun)
	assert.Regexp(t, pattern, got.Time)
}

func TestExecuteSpeaksOutcome(t *testing.T) {
	speaker := &fakeSpeaker{}
	exec := newTestExecutor(&fakeLauncher{}, speaker)
	cfg := domain.Config{AllowTTS: true}

	exec.Execute(context.Background(), domain.IntentOpenURL, domain.Entities{"url": "https://github.com"}, cfg)
	exec.Execute(context.Background(), domain.IntentTellTime, nil, cfg)
	exec.Execute(context.Background(), "", nil, cfg)
	exec.Execute(context.Background(), domain.IntentTellTime, nil, dryRun)

	assert.Equal(t, []string{
		"(dry-run) would open https://github.com",
		"The time is 2024-03-09 07:05:01",
		"Error: no_intent",
	}, speaker.spoken)
}

func TestExecuteIdempotentInDryRun(t *testing.T) {
	exec := newTestExecutor(&fakeLauncher{}, nil)
	entities := domain.Entities{"app": domain.NamedApp("spotify")}
	first := exec.Execute(context.Background(), domain.IntentOpenApp, entities, dryRun)
	second := exec.Execute(context.Background(), domain.IntentOpenApp, entities, dryRun)
	assert.Equal(t, first, second)
}
