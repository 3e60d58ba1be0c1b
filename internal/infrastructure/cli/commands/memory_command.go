package commands

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NewMemoryCommand creates the memory command
func NewMemoryCommand(containerFn ContainerFunc) *cobra.Command {
	memoryCmd := &cobra.Command{
		Use:   "memory",
		Short: "Inspect the persisted memory document",
	}

	memoryCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the memory document",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				container, err := containerFn(cmd)
				if err != nil {
					return err
				}
				if container.MemoryStore == nil {
					return errors.New(ErrMemoryStoreUnavailable)
				}
				mem, err := container.MemoryStore.Load(cmd.Context())
				if err != nil {
					return err
				}
				if len(mem) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), MsgMemoryEmpty)
					return nil
				}
				raw, err := json.MarshalIndent(mem, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(raw))
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete the memory document",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				container, err := containerFn(cmd)
				if err != nil {
					return err
				}
				if container.MemoryStore == nil {
					return errors.New(ErrMemoryStoreUnavailable)
				}
				if err := container.MemoryStore.Clear(); err != nil {
					return fmt.Errorf("failed to clear memory: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), MsgMemoryCleared)
				return nil
			},
		},
	)
	return memoryCmd
}
