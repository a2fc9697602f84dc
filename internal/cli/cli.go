package cli

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	version = "v0.1.0"
	commit  = ""
	date    = ""
)

const defaultRefreshInterval = 5 * time.Second

type rootOptions struct {
	configPath   string
	claudeDir    string
	claudePath   string
	terminalName string
	debug        bool
}

func Execute() int {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "claude-menu",
		Short:         "Browse and launch Claude Code sessions",
		SilenceErrors: false,
		SilenceUsage:  true,
		Version:       buildVersion(),
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMenu(cmd, opts, defaultRefreshInterval)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Override config file path (default: OS user config dir)")
	cmd.PersistentFlags().StringVar(&opts.claudeDir, "claude-dir", "", "Override Claude data dir (default: ~/.claude)")
	cmd.PersistentFlags().StringVar(&opts.claudePath, "claude-path", "", "Override Claude CLI path (default: search PATH)")
	cmd.PersistentFlags().StringVar(&opts.terminalName, "terminal", "", "Terminal adapter: kitty, konsole or direct (default: auto-detect)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Write a debug log under the config dir")

	cmd.AddCommand(
		newTuiCmd(opts),
		newListCmd(opts),
		newShowCmd(opts),
		newResumeCmd(opts),
		newNewCmd(opts),
		newForkCmd(opts),
		newRenameCmd(opts),
		newProfilesCmd(opts),
		newDoctorCmd(opts),
	)

	return cmd
}

func buildVersion() string {
	v := version
	if commit != "" {
		v += " (" + commit + ")"
	}
	if date != "" {
		v += " " + date
	}
	return v
}
