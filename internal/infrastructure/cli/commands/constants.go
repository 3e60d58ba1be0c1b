package commands

import (
	"github.com/spf13/cobra"

	"github.com/doeshing/gng-assistant/internal/app"
	"github.com/doeshing/gng-assistant/internal/domain"
)

// ContainerFunc returns the lazily built container for a command invocation.
type ContainerFunc func(cmd *cobra.Command) (*app.Container, error)

// Display limits.
const (
	DefaultHistoryLimit = domain.DefaultHistoryLimit
	TimestampFormat     = domain.TimestampFormat
)

// Error messages
const (
	ErrConfigLoaderUnavailable  = "config loader unavailable"
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrHistoryStoreUnavailable  = "history store unavailable"
	ErrMemoryStoreUnavailable   = "memory store unavailable"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgHistoryCleared           = "History cleared."
	MsgMemoryEmpty              = "Memory is empty."
	MsgMemoryCleared            = "Memory cleared."
)
