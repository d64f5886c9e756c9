package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	timeout    time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "calendrette",
		Short: "Calendrette - a period tracking calendar",
		Long: `Calendrette records period start dates, predicts the next period and
ovulation day, and keeps the records either on this machine or in a
shared PostgreSQL database.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (default $CALENDRETTE_CONFIG)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Timeout for storage and authentication calls")

	cmd.AddCommand(newAddCmd(opts))
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newDeleteCmd(opts))
	cmd.AddCommand(newCalendarCmd(opts))
	cmd.AddCommand(newStorageCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newImportCmd(opts))
	cmd.AddCommand(newAccountCmd(opts))
	cmd.AddCommand(newServeCmd(opts))

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
