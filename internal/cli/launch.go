package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/baaaaaaaka/claude-menu/internal/background"
	"github.com/baaaaaaaka/claude-menu/internal/claudehistory"
	"github.com/baaaaaaaka/claude-menu/internal/config"
	"github.com/baaaaaaaka/claude-menu/internal/env"
	"github.com/baaaaaaaka/claude-menu/internal/ids"
	"github.com/baaaaaaaka/claude-menu/internal/proc"
	"github.com/baaaaaaaka/claude-menu/internal/terminal"
)

var lookClaudePath = func() (string, error) { return exec.LookPath("claude") }

// claudeCommand resolves the Claude CLI binary and appends args. An empty
// claudePath falls back to PATH lookup.
func claudeCommand(claudePath string, args ...string) ([]string, error) {
	path := strings.TrimSpace(claudePath)
	if path == "" {
		var err error
		path, err = lookClaudePath()
		if err != nil {
			return nil, fmt.Errorf("claude CLI not found in PATH")
		}
	}
	return append([]string{path}, args...), nil
}

func normalizeWorkingDir(cwd string) (string, error) {
	cwd = strings.TrimSpace(cwd)
	if cwd == "" {
		return "", fmt.Errorf("missing working directory")
	}
	if !filepath.IsAbs(cwd) {
		cwd, _ = filepath.Abs(cwd)
	}
	if st, err := os.Stat(cwd); err != nil || !st.IsDir() {
		if err != nil {
			return "", fmt.Errorf("working directory not found: %w", err)
		}
		return "", fmt.Errorf("working directory is not a directory: %s", cwd)
	}
	return cwd, nil
}

// launchEnv is the environment handed to launched sessions: the current one
// plus the Claude dir and shell overrides from config and flags.
func (a *app) launchEnv() []string {
	vars := map[string]string{}
	if a.claudeDir != "" {
		vars[claudehistory.EnvClaudeDir] = a.claudeDir
	}
	if a.cfg.Shell != "" {
		vars["SHELL"] = a.cfg.Shell
	}
	if len(vars) == 0 {
		return nil
	}
	return env.WithVars(os.Environ(), vars)
}

func (a *app) backgroundInfo(ctx context.Context, session claudehistory.Session, title string) background.Info {
	if title == "" {
		title = session.CustomTitle
	}
	a.scanner.Enrich(ctx, &session)
	return background.Info{
		SessionID:   session.SessionID,
		Title:       title,
		ProjectPath: session.ProjectPath,
		Branch:      session.GitBranch,
		Model:       session.Model,
	}
}

func sessionWorkDir(session claudehistory.Session, project claudehistory.Project) (string, error) {
	cwd := session.ProjectPath
	if cwd == "" {
		cwd = project.Path
	}
	if cwd == "" {
		return "", fmt.Errorf("cannot determine session working directory")
	}
	return normalizeWorkingDir(cwd)
}

// launchResume reopens an existing session. With a managed profile for the
// session's title the profile drives the launch and its background gets
// refreshed first; otherwise the command goes straight to the adapter.
func (a *app) launchResume(ctx context.Context, session claudehistory.Session, project claudehistory.Project) error {
	if session.SessionID == "" {
		return fmt.Errorf("missing session id")
	}
	cwd, err := sessionWorkDir(session, project)
	if err != nil {
		return err
	}
	command, err := claudeCommand(a.claudePath, "--resume", session.SessionID)
	if err != nil {
		return err
	}

	profile := ""
	if session.CustomTitle != "" {
		name := terminal.ProfileName(session.CustomTitle)
		existing, err := a.adapter.ListProfiles()
		if err == nil {
			for _, p := range existing {
				if p == name {
					profile = name
					break
				}
			}
		}
	}
	if profile != "" && a.generator.Dir != "" {
		if path, changed, err := a.generator.RefreshIfChanged(ctx, a.backgroundInfo(ctx, session, "")); err == nil && changed {
			if err := a.adapter.SetBackground(profile, path); err != nil {
				a.log.Warn("background refresh failed", "profile", profile, "error", err)
			}
		}
	}

	pid, err := a.adapter.LaunchSession(ctx, terminal.LaunchSpec{
		Profile: profile,
		WorkDir: cwd,
		Command: command,
		Env:     a.launchEnv(),
	})
	if err != nil {
		return err
	}
	return a.recordLaunch(session.SessionID, profile, pid)
}

func (a *app) launchNew(ctx context.Context, cwd string) error {
	cwd, err := normalizeWorkingDir(cwd)
	if err != nil {
		return err
	}
	command, err := claudeCommand(a.claudePath)
	if err != nil {
		return err
	}
	pid, err := a.adapter.LaunchSession(ctx, terminal.LaunchSpec{
		WorkDir: cwd,
		Command: command,
		Env:     a.launchEnv(),
	})
	if err != nil {
		return err
	}
	return a.recordLaunch("", "", pid)
}

// launchFork opens the session under a new named profile with a fresh
// background image. The underlying log file is shared; profiles are the
// only thing forked.
func (a *app) launchFork(ctx context.Context, session claudehistory.Session, project claudehistory.Project, name string) error {
	if session.SessionID == "" {
		return fmt.Errorf("missing session id")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("missing fork name")
	}
	cwd, err := sessionWorkDir(session, project)
	if err != nil {
		return err
	}
	command, err := claudeCommand(a.claudePath, "--resume", session.SessionID)
	if err != nil {
		return err
	}

	bgPath := ""
	if a.generator.Dir != "" {
		if path, err := a.generator.Generate(ctx, a.backgroundInfo(ctx, session, name)); err == nil {
			bgPath = path
		} else {
			a.log.Warn("background generation failed", "session", session.SessionID, "error", err)
		}
	}

	existing, err := a.adapter.ListProfiles()
	if err != nil {
		return err
	}
	unique, err := terminal.UniqueProfileName(name, existing)
	if err != nil {
		return err
	}
	profile, err := a.adapter.CreateProfile(terminal.ProfileOptions{
		Base:       strings.TrimPrefix(unique, terminal.ProfilePrefix),
		WorkDir:    cwd,
		Command:    command,
		Background: bgPath,
	})
	if err != nil {
		return err
	}

	pid, err := a.adapter.LaunchSession(ctx, terminal.LaunchSpec{
		Profile: profile,
		WorkDir: cwd,
		Command: command,
		Env:     a.launchEnv(),
	})
	if err != nil {
		return err
	}
	return a.recordLaunch(session.SessionID, profile, pid)
}

// renameSession swaps the session's managed profile for one named after the
// new title. Session log files belong to the Claude CLI and are never
// touched.
func (a *app) renameSession(ctx context.Context, session claudehistory.Session, project claudehistory.Project, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("missing new name")
	}
	cwd, err := sessionWorkDir(session, project)
	if err != nil {
		return err
	}
	command, err := claudeCommand(a.claudePath, "--resume", session.SessionID)
	if err != nil {
		return err
	}

	if session.CustomTitle != "" {
		if err := a.adapter.RemoveProfile(terminal.ProfileName(session.CustomTitle)); err != nil {
			a.log.Warn("old profile removal failed", "session", session.SessionID, "error", err)
		}
	}

	bgPath := ""
	if a.generator.Dir != "" {
		if path, err := a.generator.Generate(ctx, a.backgroundInfo(ctx, session, newName)); err == nil {
			bgPath = path
		}
	}

	_, err = a.adapter.CreateProfile(terminal.ProfileOptions{
		Base:       newName,
		WorkDir:    cwd,
		Command:    command,
		Background: bgPath,
	})
	return err
}

// removeSessionProfile drops the managed profile and background for a
// session, plus any launch records pointing at it.
func (a *app) removeSessionProfile(session claudehistory.Session) error {
	if session.CustomTitle != "" {
		if err := a.adapter.RemoveProfile(terminal.ProfileName(session.CustomTitle)); err != nil {
			return err
		}
	}
	if a.generator.Dir != "" {
		_ = a.generator.Remove(session.SessionID)
	}
	return a.store.Update(func(cfg *config.Config) error {
		for _, l := range cfg.LaunchesForSession(session.SessionID) {
			cfg.RemoveLaunch(l.ID)
		}
		return nil
	})
}

// recordLaunch registers a detached launch and prunes records whose process
// already exited. Blocking launches report pid 0 and are not recorded.
func (a *app) recordLaunch(sessionID, profile string, pid int) error {
	if pid <= 0 {
		return nil
	}
	id, err := ids.New()
	if err != nil {
		return err
	}
	return a.store.Update(func(cfg *config.Config) error {
		cfg.UpsertLaunch(config.Launch{
			ID:         id,
			SessionID:  sessionID,
			Profile:    profile,
			Terminal:   a.adapter.Name(),
			PID:        pid,
			LaunchedAt: time.Now(),
		})
		dead := cfg.PruneDeadLaunches(proc.IsAlive)
		for _, l := range dead {
			a.log.Debug("pruned dead launch", "launch", l.ID, "pid", l.PID)
		}
		return nil
	})
}
