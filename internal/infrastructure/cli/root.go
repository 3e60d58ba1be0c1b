package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/doeshing/gng-assistant/internal/app"
	"github.com/doeshing/gng-assistant/internal/domain"
	"github.com/doeshing/gng-assistant/internal/infrastructure/cli/commands"
	"github.com/doeshing/gng-assistant/internal/infrastructure/stt"
	"github.com/doeshing/gng-assistant/internal/ports"
)

// Console lines of the interactive mode.
const (
	Banner      = "Offline assistant - type simulated speech and press Enter (Ctrl+C to quit)"
	ExitMessage = "Exiting"
	TestPrefix  = "[test] simulating input: "
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
	// Build replaces app.BuildContainer, used by tests.
	Build func(context.Context, app.Options) (*app.Container, error)
	// Launcher replaces the platform launcher, used by tests.
	Launcher ports.Launcher
}

// state carries the flags and the lazily built container of one invocation.
type state struct {
	opts       Options
	configPath string
	verbose    bool
	flags      overrideFlags
	container  *app.Container
}

// NewRootCmd wires the cobra root command. The returned func releases the
// container, if one was built; call it after Execute returns.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, func() error) {
	st := &state{opts: opts}

	root := &cobra.Command{
		Use:   "gng",
		Short: "gng - offline voice command assistant",
		Long: "gng turns short spoken commands into local actions: opening sites,\n" +
			"launching applications and telling the time. Typed lines stand in for\n" +
			"the microphone. Live execution is off unless allow_execution is set.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.runInteractive(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetContext(ctx)

	pf := root.PersistentFlags()
	pf.StringVar(&st.configPath, "config", "", "Config file (default ~/.gng/config.yaml, or $GNG_CONFIG)")
	pf.BoolVarP(&st.verbose, "verbose", "v", false, "Enable debug logging")
	st.flags.register(pf)

	containerFn := func(cmd *cobra.Command) (*app.Container, error) {
		return st.containerFor(cmd, false)
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Read simulated speech from stdin, one utterance per line",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return st.runInteractive(cmd)
			},
		},
		&cobra.Command{
			Use:   "test",
			Short: "Process one canned utterance and print the turn as JSON",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return st.runTest(cmd)
			},
		},
		commands.NewConfigCommand(containerFn),
		commands.NewDoctorCommand(containerFn),
		commands.NewHistoryCommand(containerFn),
		commands.NewMemoryCommand(containerFn),
		commands.NewVersionCommand(),
	)

	closeFn := func() error {
		if st.container == nil {
			return nil
		}
		err := st.container.Close()
		st.container = nil
		return err
	}
	return root, closeFn
}

// containerFor builds the container on first use. Mode commands pass
// applyBundle so an invocation without override flags gets the default bundle.
func (st *state) containerFor(cmd *cobra.Command, applyBundle bool) (*app.Container, error) {
	if st.container != nil {
		return st.container, nil
	}
	overrides, notices := st.flags.resolve(cmd.Flags(), applyBundle)
	for _, notice := range notices {
		fmt.Fprintln(cmd.ErrOrStderr(), notice)
	}

	build := st.opts.Build
	if build == nil {
		build = app.BuildContainer
	}
	container, err := build(cmd.Context(), app.Options{
		ConfigPath: st.configPath,
		Verbose:    st.verbose || st.opts.Verbose,
		Overrides:  overrides,
		Launcher:   st.opts.Launcher,
		Stdout:     cmd.OutOrStdout(),
	})
	if err != nil {
		return nil, err
	}
	st.container = container
	return container, nil
}

func (st *state) runInteractive(cmd *cobra.Command) error {
	container, err := st.containerFor(cmd, true)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, Banner)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	src := stt.NewLineSource(cmd.InOrStdin())
	defer src.Close()

	wakeWord := func() string {
		cfg, err := container.ConfigWatcher.Load(ctx)
		if err != nil {
			return domain.DefaultWakeWord
		}
		return cfg.GetWakeWord()
	}
	errOut := cmd.ErrOrStderr()
	container.ConfigWatcher.OnChange(func(cfg domain.Config) {
		fmt.Fprintf(errOut, "config reloaded (wake word: %q, dry-run: %t)\n", cfg.GetWakeWord(), cfg.IsDryRun())
	})
	renderer := NewRenderer(out, wakeWord, terminalSpinner(errOut))
	events := make(chan domain.Event)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// The session ends the run; the watcher follows it down.
		defer cancel()
		return container.SessionService.Run(gctx, src, events)
	})
	g.Go(func() error {
		return renderer.Consume(events)
	})
	g.Go(func() error {
		if err := container.ConfigWatcher.Run(gctx); err != nil {
			container.Logger.Warn("config watcher stopped", map[string]interface{}{"error": err.Error()})
		}
		return nil
	})

	err = g.Wait()
	fmt.Fprintln(out, ExitMessage)
	return err
}

func (st *state) runTest(cmd *cobra.Command) error {
	container, err := st.containerFor(cmd, true)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TestPrefix+domain.TestUtterance)
	result, err := container.SessionService.ProcessText(cmd.Context(), domain.TestUtterance)
	if err != nil {
		return err
	}
	return RenderJSON(out, result)
}

// terminalSpinner returns a spinner when w is an interactive terminal.
func terminalSpinner(w io.Writer) *Spinner {
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return nil
	}
	return NewSpinner(w)
}
