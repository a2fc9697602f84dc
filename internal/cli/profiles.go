package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/baaaaaaaka/claude-menu/internal/terminal"
)

func newProfilesCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage terminal profiles created by claude-menu",
	}
	cmd.AddCommand(
		newProfilesListCmd(root),
		newProfilesRemoveCmd(root),
	)
	return cmd
}

func newProfilesListCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List managed profiles for the active terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(root)
			if err != nil {
				return err
			}
			defer a.Close()

			profiles, err := a.adapter.ListProfiles()
			if err != nil {
				return err
			}
			if len(profiles) == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No managed profiles for %s.\n", a.adapter.Name())
				return nil
			}
			for _, p := range profiles {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	return cmd
}

func newProfilesRemoveCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a managed profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(root)
			if err != nil {
				return err
			}
			defer a.Close()

			name := args[0]
			if !terminal.IsManagedProfile(name) {
				name = terminal.ProfileName(name)
			}
			if err := a.adapter.RemoveProfile(name); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed profile %q.\n", name)
			return nil
		},
	}
	return cmd
}
