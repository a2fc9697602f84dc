package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

const konsoleWallpaperOpacity = "0.3"

// Konsole manages KDE Konsole .profile files under ProfilesDir.
type Konsole struct {
	ProfilesDir string
	Log         *slog.Logger
}

func NewKonsole(log *slog.Logger) *Konsole {
	dir := ""
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".local", "share", "konsole")
	}
	return &Konsole{ProfilesDir: dir, Log: log}
}

func (k *Konsole) Name() string { return "konsole" }

func (k *Konsole) IsAvailable() bool {
	_, err := exec.LookPath("konsole")
	return err == nil
}

func (k *Konsole) profilePath(name string) string {
	return filepath.Join(k.ProfilesDir, name+".profile")
}

// CreateProfile writes the .profile file, replacing any previous one with
// the same name.
func (k *Konsole) CreateProfile(opts ProfileOptions) (string, error) {
	name := ProfileName(opts.Base)

	if err := os.MkdirAll(k.ProfilesDir, 0o755); err != nil {
		return "", fmt.Errorf("create konsole profile dir: %w", err)
	}

	cfg := ini.Empty()
	general, err := cfg.NewSection("General")
	if err != nil {
		return "", err
	}
	general.Key("Name").SetValue(name)
	general.Key("Parent").SetValue("FALLBACK/")
	if len(opts.Command) > 0 {
		general.Key("Command").SetValue(strings.Join(opts.Command, " "))
	}
	if opts.WorkDir != "" {
		general.Key("Directory").SetValue(opts.WorkDir)
	}
	if backgroundUsable(opts.Background) {
		setWallpaper(cfg, opts.Background)
	}

	if err := cfg.SaveTo(k.profilePath(name)); err != nil {
		return "", fmt.Errorf("write konsole profile: %w", err)
	}
	k.Log.Debug("created konsole profile", "profile", name)
	return name, nil
}

func setWallpaper(cfg *ini.File, imagePath string) {
	appearance := cfg.Section("Appearance")
	appearance.Key("Wallpaper").SetValue(imagePath)
	appearance.Key("WallpaperOpacity").SetValue(konsoleWallpaperOpacity)
	appearance.Key("WallpaperFlipType").SetValue("NoFlip")
	appearance.Key("WallpaperAnchor").SetValue("Center")
}

func (k *Konsole) RemoveProfile(name string) error {
	if !IsManagedProfile(name) {
		return nil
	}
	err := os.Remove(k.profilePath(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove konsole profile: %w", err)
	}
	return nil
}

func (k *Konsole) ListProfiles() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(k.ProfilesDir, ProfilePrefix+"*.profile"))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(filepath.Base(m), ".profile"))
	}
	return names, nil
}

func (k *Konsole) SetBackground(profile, imagePath string) error {
	if !IsManagedProfile(profile) {
		return fmt.Errorf("set background: %q is not a managed profile", profile)
	}
	path := k.profilePath(profile)
	cfg, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("load konsole profile: %w", err)
	}
	setWallpaper(cfg, imagePath)
	return cfg.SaveTo(path)
}

func (k *Konsole) LaunchSession(ctx context.Context, spec LaunchSpec) (int, error) {
	var args []string
	if spec.Profile != "" {
		args = append(args, "--profile", spec.Profile)
	}
	if spec.WorkDir != "" {
		args = append(args, "--workdir", spec.WorkDir)
	}
	if len(spec.Command) > 0 {
		args = append(args, "-e")
		args = append(args, spec.Command...)
	}

	cmd := exec.CommandContext(ctx, "konsole", args...)
	if len(spec.Env) > 0 {
		cmd.Env = spec.Env
	}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("launch konsole: %w", err)
	}
	pid := cmd.Process.Pid
	go func() { _ = cmd.Wait() }()
	k.Log.Debug("launched konsole session", "profile", spec.Profile, "pid", pid)
	return pid, nil
}
