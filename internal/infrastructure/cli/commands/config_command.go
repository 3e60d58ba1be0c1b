package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/gng-assistant/internal/app"
	"github.com/doeshing/gng-assistant/internal/domain"
)

const (
	envKeyEditor  = "EDITOR"
	defaultEditor = "vi"
)

// NewConfigCommand creates the config command with all subcommands
func NewConfigCommand(containerFn ContainerFunc) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect gng configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, containerFn, showConfiguration)
		},
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withContainer(cmd, containerFn, showConfiguration)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withContainer(cmd, containerFn, func(cmd *cobra.Command, c *app.Container) error {
					fmt.Fprintln(cmd.OutOrStdout(), c.ConfigLoader.Path())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one configuration value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withContainer(cmd, containerFn, func(cmd *cobra.Command, c *app.Container) error {
					return getConfigurationValue(cmd.OutOrStdout(), c.Config, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Validate the configuration file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withContainer(cmd, containerFn, func(cmd *cobra.Command, c *app.Container) error {
					if _, err := c.ConfigLoader.Load(cmd.Context()); err != nil {
						return fmt.Errorf("configuration validation failed: %w", err)
					}
					fmt.Fprintln(cmd.OutOrStdout(), MsgConfigurationValid)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "diff",
			Short: "Show differences from the default configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withContainer(cmd, containerFn, showConfigurationDiff)
			},
		},
		&cobra.Command{
			Use:   "edit",
			Short: "Edit the configuration in $EDITOR",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withContainer(cmd, containerFn, editConfiguration)
			},
		},
	)
	return configCmd
}

func withContainer(cmd *cobra.Command, containerFn ContainerFunc, fn func(*cobra.Command, *app.Container) error) error {
	container, err := containerFn(cmd)
	if err != nil {
		return err
	}
	if container.ConfigLoader == nil {
		return errors.New(ErrConfigLoaderUnavailable)
	}
	return fn(cmd, container)
}

func showConfiguration(cmd *cobra.Command, c *app.Container) error {
	data, err := yaml.Marshal(c.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func getConfigurationValue(out io.Writer, cfg domain.Config, key string) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	var values map[string]any
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return err
	}
	value, ok := values[key]
	if !ok {
		return fmt.Errorf("key %s not found in configuration", key)
	}
	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	fmt.Fprint(out, string(data))
	return nil
}

func showConfigurationDiff(cmd *cobra.Command, c *app.Container) error {
	defaults, err := c.ConfigLoader.Defaults()
	if err != nil {
		return fmt.Errorf("failed to build default configuration: %w", err)
	}
	diff := cmp.Diff(defaults, c.Config)
	if diff == "" {
		fmt.Fprintln(cmd.OutOrStdout(), MsgNoDifferencesFromDefault)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), diff)
	return nil
}

func editConfiguration(cmd *cobra.Command, c *app.Container) error {
	editor := os.Getenv(envKeyEditor)
	if editor == "" {
		editor = defaultEditor
	}
	run := exec.CommandContext(cmd.Context(), editor, c.ConfigLoader.Path())
	run.Stdin = cmd.InOrStdin()
	run.Stdout = cmd.OutOrStdout()
	run.Stderr = cmd.ErrOrStderr()
	if err := run.Run(); err != nil {
		return fmt.Errorf("failed to run editor %s: %w", editor, err)
	}
	return nil
}
