package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"calendrette/internal/domain/auth"

	"github.com/spf13/cobra"
)

func newAccountCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the account used for remote storage",
	}
	cmd.AddCommand(newRegisterCmd(opts))
	cmd.AddCommand(newLoginCmd(opts))
	cmd.AddCommand(newLogoutCmd(opts))
	cmd.AddCommand(newWhoamiCmd(opts))
	return cmd
}

// readPassword takes the --password flag, then CALENDRETTE_PASSWORD, then
// one line of input.
func readPassword(cmd *cobra.Command) (string, error) {
	if pw, _ := cmd.Flags().GetString("password"); pw != "" {
		return pw, nil
	}
	if pw := os.Getenv("CALENDRETTE_PASSWORD"); pw != "" {
		return pw, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("could not read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newRegisterCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <email>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			return opts.withRuntime(cmd.Context(), func(ctx context.Context, rt *appRuntime) error {
				acc, err := rt.accounts.Register(ctx, args[0], password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered %s. Sign in with `calendrette account login %s`.\n", acc.Email, acc.Email)
				return nil
			})
		},
	}
	cmd.Flags().String("password", "", "Password (default $CALENDRETTE_PASSWORD or prompt)")
	return cmd
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in for remote storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			return opts.withRuntime(cmd.Context(), func(ctx context.Context, rt *appRuntime) error {
				acc, err := rt.accounts.Login(ctx, args[0], password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", acc.Email)
				return nil
			})
		},
	}
	cmd.Flags().String("password", "", "Password (default $CALENDRETTE_PASSWORD or prompt)")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRuntime(cmd.Context(), func(ctx context.Context, rt *appRuntime) error {
				if err := rt.accounts.Logout(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
				return nil
			})
		},
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRuntime(cmd.Context(), func(ctx context.Context, rt *appRuntime) error {
				state := rt.accounts.Whoami()
				if id, ok := state.Principal(); ok {
					fmt.Fprintf(cmd.OutOrStdout(), "Signed in as account %s.\n", id)
					return nil
				}
				if state.Status == auth.StatusUnknown {
					fmt.Fprintln(cmd.OutOrStdout(), "Session could not be resolved.")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
				return nil
			})
		},
	}
}
