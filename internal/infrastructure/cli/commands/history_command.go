package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/doeshing/gng-assistant/internal/domain"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(containerFn ContainerFunc) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded turns",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(containerFn),
		newHistoryClearCommand(containerFn),
		newHistoryExportCommand(containerFn),
	)
	return historyCmd
}

func newHistoryListCommand(containerFn ContainerFunc) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent turns, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := containerFn(cmd)
			if err != nil {
				return err
			}
			if container.HistoryStore == nil {
				return errors.New(ErrHistoryStoreUnavailable)
			}
			records, err := container.HistoryStore.Records(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to retrieve history records: %w", err)
			}
			writeHistory(cmd.OutOrStdout(), records)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultHistoryLimit, "Max entries to show (0 for all)")
	return cmd
}

func newHistoryClearCommand(containerFn ContainerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded turns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := containerFn(cmd)
			if err != nil {
				return err
			}
			if container.HistoryStore == nil {
				return errors.New(ErrHistoryStoreUnavailable)
			}
			if err := container.HistoryStore.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgHistoryCleared)
			return nil
		},
	}
}

func newHistoryExportCommand(containerFn ContainerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export history to a JSONL file, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := containerFn(cmd)
			if err != nil {
				return err
			}
			if container.HistoryStore == nil {
				return errors.New(ErrHistoryStoreUnavailable)
			}
			f, err := os.OpenFile(args[0], os.O_CREATE|os.O_TRUNC|os.O_WRONLY, domain.SecureFilePermissions)
			if err != nil {
				return err
			}
			if err := container.HistoryStore.Export(cmd.Context(), f); err != nil {
				f.Close()
				return fmt.Errorf("failed to export history to %s: %w", args[0], err)
			}
			return f.Close()
		},
	}
}

func writeHistory(out io.Writer, records []domain.HistoryRecord) {
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return
	}
	for _, rec := range records {
		mode := "live"
		if rec.DryRun {
			mode = "dry-run"
		}
		status := "ok"
		detail := rec.Action
		if rec.Time != "" {
			detail = rec.Time
		}
		if !rec.Success {
			status = "failed"
			detail = rec.Error
		}
		fmt.Fprintf(out, "%s | %s | %s/%s | %s | %s | %s\n",
			rec.Timestamp.Format(TimestampFormat),
			rec.Text,
			rec.Intent,
			rec.Strategy,
			mode,
			status,
			detail)
	}
}
