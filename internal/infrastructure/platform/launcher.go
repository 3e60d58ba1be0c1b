// Package platform performs the live operating-system effects: opening a URI
// with the desktop handler and launching a named application.
package platform

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/doeshing/gng-assistant/internal/ports"
)

// Starter starts a process without waiting for it to finish.
type Starter func(ctx context.Context, name string, args ...string) error

// Launcher picks the platform commands for the host operating system.
type Launcher struct {
	goos  string
	start Starter
}

// NewLauncher returns a launcher for the running operating system.
func NewLauncher() *Launcher {
	return NewLauncherFor(runtime.GOOS, startDetached)
}

// NewLauncherFor builds a launcher for goos using start to spawn processes.
func NewLauncherFor(goos string, start Starter) *Launcher {
	return &Launcher{goos: goos, start: start}
}

// OpenURL hands target to the platform URI handler.
func (l *Launcher) OpenURL(ctx context.Context, target string) error {
	name, args := l.URLCommand(target)
	if err := l.start(ctx, name, args...); err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	return nil
}

// LaunchApp starts a named executable through the platform shell.
func (l *Launcher) LaunchApp(ctx context.Context, app string) error {
	name, args := l.AppCommand(app)
	if err := l.start(ctx, name, args...); err != nil {
		return fmt.Errorf("launch %s: %w", app, err)
	}
	return nil
}

// URLCommand returns the program and arguments that open target.
func (l *Launcher) URLCommand(target string) (string, []string) {
	switch l.goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	case "darwin":
		return "open", []string{target}
	default:
		return "xdg-open", []string{target}
	}
}

// AppCommand returns the program and arguments that launch app.
func (l *Launcher) AppCommand(app string) (string, []string) {
	switch l.goos {
	case "windows":
		return "cmd", []string{"/c", "start", "", app}
	case "darwin":
		return "open", []string{"-a", app}
	default:
		return app, nil
	}
}

func startDetached(ctx context.Context, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return err
	}
	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap the child once it exits; the launched program outlives the turn.
	go func() { _ = cmd.Wait() }()
	return nil
}

var _ ports.Launcher = (*Launcher)(nil)
