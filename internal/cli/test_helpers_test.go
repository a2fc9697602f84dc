package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/baaaaaaaka/claude-menu/internal/background"
	"github.com/baaaaaaaka/claude-menu/internal/claudehistory"
	"github.com/baaaaaaaka/claude-menu/internal/config"
	"github.com/baaaaaaaka/claude-menu/internal/logging"
	"github.com/baaaaaaaka/claude-menu/internal/terminal"
)

func newTempStore(t *testing.T) *config.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	store, err := config.NewStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

// writeSessionFixture creates a projects tree with one indexed session and
// returns the claude dir it lives under.
func writeSessionFixture(t *testing.T) string {
	t.Helper()
	claudeDir := t.TempDir()
	projectDir := filepath.Join(claudeDir, "projects", "-tmp-proj")
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	index := `{"entries":[{"sessionId":"abc12345-0000-0000-0000-000000000000",` +
		`"firstPrompt":"hello there","messageCount":3,"projectPath":"/tmp/proj",` +
		`"created":"2026-08-01T10:00:00Z","modified":"2026-08-02T10:00:00Z"}]}`
	path := filepath.Join(projectDir, claudehistory.IndexFileName)
	if err := os.WriteFile(path, []byte(index), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	return claudeDir
}

func newTestApp(t *testing.T, adapter terminal.Adapter) *app {
	t.Helper()
	claudeDir := writeSessionFixture(t)
	return &app{
		store:     newTempStore(t),
		log:       logging.Discard(),
		closeLog:  func() error { return nil },
		claudeDir: claudeDir,
		scanner:   claudehistory.NewScanner(filepath.Join(claudeDir, "projects"), nil),
		adapter:   adapter,
		generator: background.NewGenerator(t.TempDir(), nil),
	}
}

type fakeAdapter struct {
	profiles    map[string]bool
	created     []terminal.ProfileOptions
	removed     []string
	backgrounds map[string]string
	launched    []terminal.LaunchSpec
	pid         int
	launchErr   error
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{
		profiles:    map[string]bool{},
		backgrounds: map[string]string{},
		pid:         os.Getpid(),
	}
}

func (f *fakeAdapter) Name() string      { return "fake" }
func (f *fakeAdapter) IsAvailable() bool { return true }

func (f *fakeAdapter) CreateProfile(opts terminal.ProfileOptions) (string, error) {
	name := terminal.ProfileName(opts.Base)
	f.profiles[name] = true
	f.created = append(f.created, opts)
	return name, nil
}

func (f *fakeAdapter) RemoveProfile(name string) error {
	delete(f.profiles, name)
	f.removed = append(f.removed, name)
	return nil
}

func (f *fakeAdapter) ListProfiles() ([]string, error) {
	names := make([]string, 0, len(f.profiles))
	for name := range f.profiles {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeAdapter) SetBackground(profile, imagePath string) error {
	f.backgrounds[profile] = imagePath
	return nil
}

func (f *fakeAdapter) LaunchSession(_ context.Context, spec terminal.LaunchSpec) (int, error) {
	if f.launchErr != nil {
		return 0, f.launchErr
	}
	f.launched = append(f.launched, spec)
	return f.pid, nil
}
