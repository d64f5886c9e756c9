package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"calendrette/internal/app"
	"calendrette/internal/domain/period"

	"github.com/spf13/cobra"
)

func newStorageCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Show or change where records are kept",
	}
	cmd.AddCommand(newStorageShowCmd(opts))
	cmd.AddCommand(newStorageUseCmd(opts))
	return cmd
}

func newStorageShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active storage and session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRuntime(cmd.Context(), func(ctx context.Context, rt *appRuntime) error {
				kind, err := rt.storage.Preference()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Active storage:  %s\n", displayKind(kind))
				fmt.Fprintf(out, "Remote storage:  %s\n", map[bool]string{true: "configured", false: "not configured"}[rt.storage.RemoteConfigured()])
				fmt.Fprintf(out, "Session:         %s\n", rt.sessions.Current().Status)
				fmt.Fprintf(out, "Local store:     %s\n", rt.cfg.LocalStorePath)
				return nil
			})
		},
	}
}

func newStorageUseCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <local|remote>",
		Short: "Switch storage, optionally transferring records",
		Long: `Switch the active storage.

--transfer merge    copy records the destination does not have yet (default)
--transfer replace  delete the destination's records, then copy
--transfer none     switch without moving any record

Examples:
  calendrette storage use remote
  calendrette storage use local --transfer replace
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transfer, _ := cmd.Flags().GetString("transfer")

			return opts.withRuntime(cmd.Context(), func(ctx context.Context, rt *appRuntime) error {
				to, err := period.ParseKind(args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()

				if transfer == "none" {
					if err := rt.storage.Switch(to); err != nil {
						return err
					}
					fmt.Fprintf(out, "Now using %s storage. No records were moved.\n", displayKind(to))
					return nil
				}

				policy, err := app.ParseMigrationPolicy(transfer)
				if err != nil {
					return err
				}
				result, err := rt.storage.Migrate(ctx, to, policy)
				if err != nil {
					if result != (app.MigrationResult{}) {
						fmt.Fprintf(out, "Migration stopped after copying %d and removing %d records. Storage was not switched.\n", result.Migrated, result.Removed)
					}
					return err
				}
				fmt.Fprintf(out, "Now using %s storage: %d copied, %d already present, %d removed.\n",
					displayKind(to), result.Migrated, result.Skipped, result.Removed)
				return nil
			})
		},
	}

	cmd.Flags().String("transfer", "merge", "How to move records: merge, replace or none")
	return cmd
}

func displayKind(k period.Kind) string {
	if k == period.KindRemote {
		return "remote"
	}
	return string(k)
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the local records to a JSON snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			return opts.withRuntime(cmd.Context(), func(ctx context.Context, rt *appRuntime) error {
				snap, err := rt.storage.ExportSnapshot(time.Now().In(rt.cfg.Location))
				if err != nil {
					return err
				}
				path := filepath.Join(dir, snap.Filename)
				if err := os.WriteFile(path, snap.Data, 0o600); err != nil {
					return fmt.Errorf("could not write snapshot: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}

	cmd.Flags().String("dir", ".", "Directory to write the snapshot to")
	return cmd
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the local records with a JSON snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("could not read snapshot: %w", err)
			}
			return opts.withRuntime(cmd.Context(), func(ctx context.Context, rt *appRuntime) error {
				n, err := rt.storage.ImportSnapshot(data)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records into local storage.\n", n)
				return nil
			})
		},
	}
}
