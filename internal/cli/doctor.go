package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/baaaaaaaka/claude-menu/internal/config"
	"github.com/baaaaaaaka/claude-menu/internal/proc"
	"github.com/baaaaaaaka/claude-menu/internal/terminal"
)

func newDoctorCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Report environment status and clean up dead launches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(root)
			if err != nil {
				return err
			}
			defer a.Close()
			return runDoctor(cmd.OutOrStdout(), a)
		},
	}
	return cmd
}

func runDoctor(out io.Writer, a *app) error {
	_, _ = fmt.Fprintf(out, "Config:       %s\n", a.store.Path())
	_, _ = fmt.Fprintf(out, "Projects dir: %s", a.scanner.ProjectsDir)
	if st, err := os.Stat(a.scanner.ProjectsDir); err != nil || !st.IsDir() {
		_, _ = fmt.Fprint(out, "  (missing)")
	}
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintf(out, "Terminal:     %s (detected: %s)\n", a.adapter.Name(), terminal.Detect(os.Environ()))

	for _, bin := range []string{"claude", "kitty", "konsole", "magick", "convert"} {
		status := "missing"
		if path, err := exec.LookPath(bin); err == nil {
			status = path
		}
		_, _ = fmt.Fprintf(out, "%-13s %s\n", bin+":", status)
	}

	sessions := a.scanner.Discover()
	_, _ = fmt.Fprintf(out, "Sessions:     %d\n", len(sessions))

	// Prune launches whose process died, dropping their profiles when no
	// surviving launch still uses them.
	var dead []config.Launch
	err := a.store.Update(func(cfg *config.Config) error {
		dead = cfg.PruneDeadLaunches(proc.IsAlive)
		inUse := map[string]bool{}
		for _, l := range cfg.Launches {
			inUse[l.Profile] = true
		}
		for _, l := range dead {
			if l.Profile == "" || inUse[l.Profile] {
				continue
			}
			if err := a.adapter.RemoveProfile(l.Profile); err != nil {
				a.log.Warn("profile cleanup failed", "profile", l.Profile, "error", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Launches:     pruned %d dead record(s)\n", len(dead))
	return nil
}
