package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login <password>",
		Short: "Open a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer ws.Close()

			if err := ws.Session.Login(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s\n", ws.Config.Store.Name)
			return nil
		},
	}
}

func newLogoutCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Close the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer ws.Close()

			if err := ws.Session.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newRecoverCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recover <phrase>",
		Short: "Show the password given the recovery phrase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer ws.Close()

			secret, err := ws.Session.Recover(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password: %s\n", secret)
			return nil
		},
	}
}
