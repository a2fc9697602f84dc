package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/baaaaaaaka/claude-menu/internal/claudehistory"
	"github.com/baaaaaaaka/claude-menu/internal/tui"
)

func TestRunMenuQuitWithoutSelection(t *testing.T) {
	claudeDir := writeSessionFixture(t)
	configPath := filepath.Join(t.TempDir(), "config.json")

	var captured tui.Options
	orig := selectAction
	selectAction = func(ctx context.Context, opts tui.Options) (*tui.Selection, error) {
		captured = opts
		return nil, nil
	}
	t.Cleanup(func() { selectAction = orig })

	_, err := runCommand(t,
		"--config", configPath,
		"--claude-dir", claudeDir,
		"--terminal", "direct",
		"tui",
	)
	if err != nil {
		t.Fatalf("tui: %v", err)
	}

	if captured.Terminal != "direct" {
		t.Fatalf("terminal = %q", captured.Terminal)
	}
	projects, err := captured.LoadProjects(context.Background())
	if err != nil {
		t.Fatalf("LoadProjects: %v", err)
	}
	if len(projects) != 1 || len(projects[0].Sessions) != 1 {
		t.Fatalf("projects = %#v", projects)
	}
}

func TestRunMenuEnrichesSessions(t *testing.T) {
	claudeDir := writeSessionFixture(t)
	projectDir := filepath.Join(claudeDir, "projects", "-tmp-proj")
	log := `{"type":"assistant","message":{"model":"claude-sonnet-4-5"}}` + "\n"
	logPath := filepath.Join(projectDir, "abc12345-0000-0000-0000-000000000000.jsonl")
	if err := os.WriteFile(logPath, []byte(log), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	orig := selectAction
	selectAction = func(ctx context.Context, opts tui.Options) (*tui.Selection, error) {
		projects, err := opts.LoadProjects(ctx)
		if err != nil {
			t.Fatalf("LoadProjects: %v", err)
		}
		sess := projects[0].Sessions[0]
		if sess.Model != "sonnet" {
			t.Errorf("model = %q, want sonnet", sess.Model)
		}
		if sess.FilePath != logPath {
			t.Errorf("filePath = %q, want %q", sess.FilePath, logPath)
		}
		return nil, nil
	}
	t.Cleanup(func() { selectAction = orig })

	_, err := runCommand(t,
		"--config", filepath.Join(t.TempDir(), "config.json"),
		"--claude-dir", claudeDir,
		"--terminal", "direct",
		"tui",
	)
	if err != nil {
		t.Fatalf("tui: %v", err)
	}
}

func TestRunMenuHidesEmptySessions(t *testing.T) {
	claudeDir := t.TempDir()
	projectDir := filepath.Join(claudeDir, "projects", "-tmp-proj")
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	index := `{"entries":[` +
		`{"sessionId":"full0000-0000-0000-0000-000000000000","messageCount":2,"projectPath":"/tmp/proj"},` +
		`{"sessionId":"idle0000-0000-0000-0000-000000000000"}]}`
	path := filepath.Join(projectDir, claudehistory.IndexFileName)
	if err := os.WriteFile(path, []byte(index), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}

	orig := selectAction
	selectAction = func(ctx context.Context, opts tui.Options) (*tui.Selection, error) {
		projects, err := opts.LoadProjects(ctx)
		if err != nil {
			t.Fatalf("LoadProjects: %v", err)
		}
		if len(projects) != 1 || len(projects[0].Sessions) != 1 {
			t.Fatalf("projects = %#v", projects)
		}
		if !strings.HasPrefix(projects[0].Sessions[0].SessionID, "full") {
			t.Fatalf("session = %q", projects[0].Sessions[0].SessionID)
		}
		return nil, nil
	}
	t.Cleanup(func() { selectAction = orig })

	_, err := runCommand(t,
		"--config", filepath.Join(t.TempDir(), "config.json"),
		"--claude-dir", claudeDir,
		"--terminal", "direct",
		"tui",
	)
	if err != nil {
		t.Fatalf("tui: %v", err)
	}
}

func TestRunMenuRenameLoopsBack(t *testing.T) {
	claudeDir := writeSessionFixture(t)
	configPath := filepath.Join(t.TempDir(), "config.json")

	calls := 0
	orig := selectAction
	selectAction = func(ctx context.Context, opts tui.Options) (*tui.Selection, error) {
		calls++
		if calls == 1 {
			projects, err := opts.LoadProjects(ctx)
			if err != nil || len(projects) == 0 {
				t.Fatalf("LoadProjects: %v", err)
			}
			sess := projects[0].Sessions[0]
			sess.ProjectPath = t.TempDir()
			return &tui.Selection{
				Action:   tui.ActionRename,
				Project:  projects[0],
				Session:  sess,
				NewTitle: "renamed",
			}, nil
		}
		return nil, nil
	}
	t.Cleanup(func() { selectAction = orig })

	_, err := runCommand(t,
		"--config", configPath,
		"--claude-dir", claudeDir,
		"--terminal", "direct",
		"--claude-path", "/opt/bin/claude",
		"tui",
	)
	if err != nil {
		t.Fatalf("tui: %v", err)
	}
	if calls != 2 {
		t.Fatalf("selectAction calls = %d", calls)
	}
}
