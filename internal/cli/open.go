package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func newResumeCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume <session-id>",
		Short: "Reopen a session in its terminal profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(root)
			if err != nil {
				return err
			}
			defer a.Close()

			session, project, err := a.findSession(args[0])
			if err != nil {
				return err
			}
			return a.launchResume(cmd.Context(), session, project)
		},
	}
	return cmd
}

func newNewCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new [dir]",
		Short: "Start a fresh Claude session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(root)
			if err != nil {
				return err
			}
			defer a.Close()

			cwd := ""
			if len(args) == 1 {
				cwd = args[0]
			} else {
				cwd, _ = os.Getwd()
			}
			return a.launchNew(cmd.Context(), cwd)
		},
	}
	return cmd
}

func newForkCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fork <session-id> <name>",
		Short: "Open a session under a new named profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(root)
			if err != nil {
				return err
			}
			defer a.Close()

			session, project, err := a.findSession(args[0])
			if err != nil {
				return err
			}
			return a.launchFork(cmd.Context(), session, project, args[1])
		},
	}
	return cmd
}

func newRenameCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <session-id> <name>",
		Short: "Replace a session's terminal profile with a renamed one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(root)
			if err != nil {
				return err
			}
			defer a.Close()

			session, project, err := a.findSession(args[0])
			if err != nil {
				return err
			}
			return a.renameSession(cmd.Context(), session, project, args[1])
		},
	}
	return cmd
}
