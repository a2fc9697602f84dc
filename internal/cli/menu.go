package cli

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/baaaaaaaka/claude-menu/internal/claudehistory"
	"github.com/baaaaaaaka/claude-menu/internal/tui"
)

var selectAction = tui.SelectAction

func newTuiCmd(root *rootOptions) *cobra.Command {
	var refreshInterval time.Duration

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse sessions in a terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMenu(cmd, root, refreshInterval)
		},
	}
	cmd.Flags().DurationVar(&refreshInterval, "refresh-interval", defaultRefreshInterval, "Auto-refresh interval (0 to disable)")
	return cmd
}

// runMenu drives the interactive session picker. Rename and profile
// removal loop back into the menu; launches end it.
func runMenu(cmd *cobra.Command, root *rootOptions, refreshInterval time.Duration) error {
	ctx := cmd.Context()
	a, err := newApp(root)
	if err != nil {
		return err
	}
	defer a.Close()

	defaultCwd, _ := os.Getwd()

	for {
		selection, err := selectAction(ctx, tui.Options{
			LoadProjects: func(ctx context.Context) ([]claudehistory.Project, error) {
				claudehistory.ResetCache()
				sessions := claudehistory.FilterEmptySessions(a.scanner.Discover())
				for i := range sessions {
					a.scanner.Enrich(ctx, &sessions[i])
				}
				return claudehistory.Projects(sessions), nil
			},
			Version:         version,
			Terminal:        a.adapter.Name(),
			RefreshInterval: refreshInterval,
			DefaultCwd:      defaultCwd,
		})
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if selection == nil {
			return nil
		}

		switch selection.Action {
		case tui.ActionResume:
			return a.launchResume(ctx, selection.Session, selection.Project)
		case tui.ActionNew:
			return a.launchNew(ctx, selection.Cwd)
		case tui.ActionFork:
			name := selection.Session.DisplayTitle() + " fork"
			return a.launchFork(ctx, selection.Session, selection.Project, name)
		case tui.ActionRename:
			if err := a.renameSession(ctx, selection.Session, selection.Project, selection.NewTitle); err != nil {
				return err
			}
		case tui.ActionRemoveProfile:
			if err := a.removeSessionProfile(selection.Session); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}
