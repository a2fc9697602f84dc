package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/baaaaaaaka/claude-menu/internal/claudehistory"
)

func newListCmd(root *rootOptions) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered projects and sessions as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(root)
			if err != nil {
				return err
			}
			defer a.Close()

			projects := claudehistory.Projects(a.scanner.Discover())
			payload := map[string]any{"projects": projects}
			out, err := json.Marshal(payload)
			if err != nil {
				return err
			}
			if pretty {
				out, err = json.MarshalIndent(payload, "", "  ")
				if err != nil {
					return err
				}
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON")
	return cmd
}

func newShowCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print details and recent messages for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(root)
			if err != nil {
				return err
			}
			defer a.Close()

			session, err := a.scanner.FindSessionByID(args[0])
			if err != nil {
				return err
			}
			a.scanner.Enrich(cmd.Context(), session)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), claudehistory.FormatSession(*session))
			if filePath := a.scanner.SessionFilePath(*session); filePath != "" {
				msgs, err := claudehistory.ReadSessionMessages(filePath, 20)
				if err == nil && len(msgs) > 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), claudehistory.FormatMessages(msgs, 400))
				}
			}
			return nil
		},
	}
	return cmd
}
