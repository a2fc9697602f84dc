package cli

import (
	"log/slog"
	"os"

	"github.com/baaaaaaaka/claude-menu/internal/background"
	"github.com/baaaaaaaka/claude-menu/internal/claudehistory"
	"github.com/baaaaaaaka/claude-menu/internal/config"
	"github.com/baaaaaaaka/claude-menu/internal/logging"
	"github.com/baaaaaaaka/claude-menu/internal/terminal"
)

// app holds everything a command needs once the config and flags are
// reconciled. Build one with newApp and Close it when done.
type app struct {
	store    *config.Store
	cfg      config.Config
	log      *slog.Logger
	closeLog func() error

	claudeDir  string
	claudePath string
	scanner    *claudehistory.Scanner
	adapter    terminal.Adapter
	generator  *background.Generator
}

func newApp(root *rootOptions) (*app, error) {
	store, err := config.NewStore(root.configPath)
	if err != nil {
		return nil, err
	}
	cfg, err := store.Load()
	if err != nil {
		return nil, err
	}

	debug := root.debug || cfg.Debug
	logPath, err := logging.DefaultLogPath()
	if err != nil {
		logPath = ""
	}
	log, closeLog, err := logging.New(debug, logPath)
	if err != nil {
		log = logging.Discard()
		closeLog = func() error { return nil }
	}

	claudeDir := root.claudeDir
	if claudeDir == "" {
		claudeDir = cfg.ClaudeDir
	}
	projectsDir, err := claudehistory.ResolveProjectsDir(claudeDir)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	termName := root.terminalName
	if termName == "" {
		termName = cfg.Terminal
	}
	if termName == "" {
		termName = terminal.Detect(os.Environ())
	}

	bgDir, err := background.DefaultDir()
	if err != nil {
		bgDir = ""
	}

	return &app{
		store:      store,
		cfg:        cfg,
		log:        log,
		closeLog:   closeLog,
		claudeDir:  claudeDir,
		claudePath: root.claudePath,
		scanner:    claudehistory.NewScanner(projectsDir, log),
		adapter:    terminal.ForName(termName, log),
		generator:  background.NewGenerator(bgDir, log),
	}, nil
}

func (a *app) Close() {
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

func (a *app) findSession(sessionID string) (claudehistory.Session, claudehistory.Project, error) {
	sess, err := a.scanner.FindSessionByID(sessionID)
	if err != nil {
		return claudehistory.Session{}, claudehistory.Project{}, err
	}
	for _, project := range claudehistory.Projects(a.scanner.Discover()) {
		for _, s := range project.Sessions {
			if s.SessionID == sess.SessionID {
				return *sess, project, nil
			}
		}
	}
	return *sess, claudehistory.Project{Path: sess.ProjectPath}, nil
}
