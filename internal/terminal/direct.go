package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"sync"

	"github.com/baaaaaaaka/claude-menu/internal/env"
)

// Direct runs sessions in the current terminal. There is no window to
// style, so profiles are names only, tracked in memory, and backgrounds
// are ignored.
type Direct struct {
	Log *slog.Logger

	mu       sync.Mutex
	profiles map[string]bool
}

func NewDirect(log *slog.Logger) *Direct {
	return &Direct{Log: log, profiles: map[string]bool{}}
}

func (d *Direct) Name() string { return "direct" }

func (d *Direct) IsAvailable() bool { return true }

func (d *Direct) CreateProfile(opts ProfileOptions) (string, error) {
	name := ProfileName(opts.Base)
	d.mu.Lock()
	d.profiles[name] = true
	d.mu.Unlock()
	return name, nil
}

func (d *Direct) RemoveProfile(name string) error {
	d.mu.Lock()
	delete(d.profiles, name)
	d.mu.Unlock()
	return nil
}

func (d *Direct) ListProfiles() ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	names := make([]string, 0, len(d.profiles))
	for name := range d.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (d *Direct) SetBackground(profile, imagePath string) error { return nil }

// LaunchSession runs the command in the foreground on the caller's TTY and
// blocks until it exits. Without a command it drops into the user's shell.
// The returned pid is always 0: by the time this returns the process is
// gone, so there is nothing for launch records to track.
func (d *Direct) LaunchSession(ctx context.Context, spec LaunchSpec) (int, error) {
	command := spec.Command
	if len(command) == 0 {
		environ := spec.Env
		if len(environ) == 0 {
			environ = os.Environ()
		}
		command = []string{env.Shell(environ)}
	}
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = spec.WorkDir
	if len(spec.Env) > 0 {
		cmd.Env = spec.Env
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("launch session: %w", err)
	}
	d.Log.Debug("running session in current terminal", "pid", cmd.Process.Pid)
	return 0, cmd.Wait()
}
