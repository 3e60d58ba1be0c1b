package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/gng-assistant/internal/domain"
)

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(containerFn ContainerFunc) *cobra.Command {
	var probe bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration, model, storage and speech setup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := containerFn(cmd)
			if err != nil {
				return err
			}
			if container.DoctorService == nil {
				return errors.New(ErrDoctorServiceUnavailable)
			}

			ctx := cmd.Context()
			report, err := container.DoctorService.Run(ctx)
			// Display report even if there were errors
			displayDoctorReport(cmd.OutOrStdout(), report)
			if err != nil {
				return fmt.Errorf("diagnostics completed with errors: %w", err)
			}

			if probe {
				raw, err := container.DoctorService.Probe(ctx)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "[FAIL] Model probe - %v\n", err)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "[OK] Model probe - %s\n", strings.TrimSpace(raw))
				}
			}

			if report.HasErrors() {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&probe, "probe-llm", false, "Send a test prompt to the configured model")
	return cmd
}

func displayDoctorReport(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		fmt.Fprintf(out, "[%s] %s - %s\n",
			strings.ToUpper(string(check.Status)),
			check.Name,
			check.Details)
	}
}
