package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// backgroundDirective stores the profile's background image inside the
// session file. Kitty treats the line as a comment; LaunchSession turns it
// into -o overrides.
const backgroundDirective = "# background_image "

const kittyBackgroundOpacity = "0.7"

// Kitty manages kitty session files as profiles, one file per profile
// under SessionsDir.
type Kitty struct {
	SessionsDir string
	Log         *slog.Logger
}

func NewKitty(log *slog.Logger) *Kitty {
	dir := ""
	if base, err := os.UserConfigDir(); err == nil {
		dir = filepath.Join(base, "kitty", "sessions")
	}
	return &Kitty{SessionsDir: dir, Log: log}
}

func (k *Kitty) Name() string { return "kitty" }

func (k *Kitty) IsAvailable() bool {
	_, err := exec.LookPath("kitty")
	return err == nil
}

func (k *Kitty) profilePath(name string) string {
	return filepath.Join(k.SessionsDir, name+".conf")
}

// CreateProfile writes the session file for the profile, replacing any
// previous one with the same name.
func (k *Kitty) CreateProfile(opts ProfileOptions) (string, error) {
	name := ProfileName(opts.Base)

	if err := os.MkdirAll(k.SessionsDir, 0o755); err != nil {
		return "", fmt.Errorf("create kitty sessions dir: %w", err)
	}

	var b strings.Builder
	b.WriteString("# generated by claude-menu\n")
	if backgroundUsable(opts.Background) {
		b.WriteString(backgroundDirective)
		b.WriteString(opts.Background)
		b.WriteString("\n")
	}
	if opts.WorkDir != "" {
		b.WriteString("cd ")
		b.WriteString(opts.WorkDir)
		b.WriteString("\n")
	}
	if len(opts.Command) > 0 {
		b.WriteString("launch ")
		b.WriteString(strings.Join(opts.Command, " "))
		b.WriteString("\n")
	}

	if err := os.WriteFile(k.profilePath(name), []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write kitty session file: %w", err)
	}
	k.Log.Debug("created kitty profile", "profile", name)
	return name, nil
}

func (k *Kitty) RemoveProfile(name string) error {
	if !IsManagedProfile(name) {
		return nil
	}
	err := os.Remove(k.profilePath(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove kitty profile: %w", err)
	}
	return nil
}

func (k *Kitty) ListProfiles() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(k.SessionsDir, ProfilePrefix+"*.conf"))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(filepath.Base(m), ".conf"))
	}
	return names, nil
}

func (k *Kitty) SetBackground(profile, imagePath string) error {
	if !IsManagedProfile(profile) {
		return fmt.Errorf("set background: %q is not a managed profile", profile)
	}
	path := k.profilePath(profile)
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read kitty profile: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	out := make([]string, 0, len(lines)+1)
	replaced := false
	for _, line := range lines {
		if strings.HasPrefix(line, backgroundDirective) {
			if !replaced {
				out = append(out, backgroundDirective+imagePath)
				replaced = true
			}
			continue
		}
		out = append(out, line)
	}
	if !replaced {
		out = append(out, backgroundDirective+imagePath)
	}
	return os.WriteFile(path, []byte(strings.Join(out, "\n")+"\n"), 0o644)
}

// profileBackground reads the stored background path, "" when unset.
func (k *Kitty) profileBackground(profile string) string {
	b, err := os.ReadFile(k.profilePath(profile))
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(b), "\n") {
		if strings.HasPrefix(line, backgroundDirective) {
			return strings.TrimSpace(strings.TrimPrefix(line, backgroundDirective))
		}
	}
	return ""
}

// LaunchSession starts a detached kitty window. With a profile the session
// file drives the window; otherwise the spec's directory and command are
// passed straight to kitty.
func (k *Kitty) LaunchSession(ctx context.Context, spec LaunchSpec) (int, error) {
	args := []string{"--detach"}
	if spec.Profile != "" {
		if bg := k.profileBackground(spec.Profile); bg != "" {
			args = append(args,
				"-o", "background_image="+bg,
				"-o", "background_opacity="+kittyBackgroundOpacity,
			)
		}
		args = append(args, "--session", k.profilePath(spec.Profile))
	} else {
		if spec.WorkDir != "" {
			args = append(args, "--directory", spec.WorkDir)
		}
		args = append(args, spec.Command...)
	}

	cmd := exec.CommandContext(ctx, "kitty", args...)
	if len(spec.Env) > 0 {
		cmd.Env = spec.Env
	}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("launch kitty: %w", err)
	}
	pid := cmd.Process.Pid
	// Detached window; reap the short-lived launcher in the background.
	go func() { _ = cmd.Wait() }()
	k.Log.Debug("launched kitty session", "profile", spec.Profile, "pid", pid)
	return pid, nil
}
